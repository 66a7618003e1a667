package formatting_test

import (
	"testing"

	"github.com/JaimeStill/newsqual/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare count", "4096", 4096, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "1KB", 1 << 10, false},
		{"default upload limit", "20MB", 20 << 20, false},
		{"gigabytes", "2GB", 2 << 30, false},
		{"lowercase", "10mb", 10 << 20, false},
		{"spaced", "100 MB", 100 << 20, false},
		{"fractional", "1.5KB", 1536, false},
		{"padded", "  8MB ", 8 << 20, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"unknown unit", "5XB", 0, true},
		{"unit only", "MB", 0, true},
		{"negative", "-5MB", 0, true},
		{"two dots", "1.2.3MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 500, 1, "500 B"},
		{"kilobyte", 1 << 10, 0, "1 KB"},
		{"upload limit", 20 << 20, 0, "20 MB"},
		{"fractional", 1536 << 10, 1, "1.5 MB"},
		{"negative precision", 1 << 30, -3, "1 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormattedSizesParseBack(t *testing.T) {
	for _, n := range []int64{1 << 10, 20 << 20, 1 << 30, 1 << 40} {
		s := formatting.FormatBytes(n, 0)
		got, err := formatting.ParseBytes(s)
		if err != nil {
			t.Fatalf("ParseBytes(%q): %v", s, err)
		}
		if got != n {
			t.Errorf("%d formatted as %q parsed back to %d", n, s, got)
		}
	}
}
