package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Supported storage drivers.
const (
	DriverAzure      = "azure"
	DriverS3         = "s3"
	DriverFilesystem = "filesystem"
)

// Config holds blob storage connection parameters for the Azure, S3, and
// local filesystem drivers. Only the fields of the selected driver are used.
type Config struct {
	Driver           string `toml:"driver"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	Region           string `toml:"region"`
	Endpoint         string `toml:"endpoint"`
	AccessKeyID      string `toml:"access_key_id"`
	SecretAccessKey  string `toml:"secret_access_key"`
	PathStyle        bool   `toml:"path_style"`
	Root             string `toml:"root"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver           string
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	Region           string
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	PathStyle        string
	Root             string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.ServiceURL != "" {
		c.ServiceURL = overlay.ServiceURL
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.PathStyle {
		c.PathStyle = true
	}
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFilesystem
	}
	if c.ContainerName == "" {
		c.ContainerName = "newsqual"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.Root == "" {
		c.Root = "archive"
	}
	if c.MaxListSize == 0 {
		c.MaxListSize = 50
	}
	if c.MaxListSize > MaxListCap {
		c.MaxListSize = MaxListCap
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.ServiceURL != "" {
		if v := os.Getenv(env.ServiceURL); v != "" {
			c.ServiceURL = v
		}
	}
	if env.Region != "" {
		if v := os.Getenv(env.Region); v != "" {
			c.Region = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.AccessKeyID != "" {
		if v := os.Getenv(env.AccessKeyID); v != "" {
			c.AccessKeyID = v
		}
	}
	if env.SecretAccessKey != "" {
		if v := os.Getenv(env.SecretAccessKey); v != "" {
			c.SecretAccessKey = v
		}
	}
	if env.PathStyle != "" {
		if v := os.Getenv(env.PathStyle); v != "" {
			c.PathStyle = strings.EqualFold(v, "true")
		}
	}
	if env.Root != "" {
		if v := os.Getenv(env.Root); v != "" {
			c.Root = v
		}
	}
	if env.MaxListSize != "" {
		if v := os.Getenv(env.MaxListSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxListSize = int32(min(n, int(MaxListCap)))
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.ConnectionString == "" && c.ServiceURL == "" {
			return fmt.Errorf("connection_string or service_url required")
		}
	case DriverS3:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
			return fmt.Errorf("access_key_id and secret_access_key must be set together")
		}
	case DriverFilesystem:
		if c.Root == "" {
			return fmt.Errorf("root required")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, c.Driver)
	}
	return nil
}
