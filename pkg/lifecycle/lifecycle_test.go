package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/JaimeStill/newsqual/pkg/lifecycle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type flag struct{ ok atomic.Bool }

func (f *flag) Ready() bool { return f.ok.Load() }

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}
}

func TestStartupHooksRun(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() error {
			count.Add(1)
			return nil
		})
	}

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("not ready after clean startup")
	}
}

func TestStartupErrorWithholdsReadiness(t *testing.T) {
	lc := lifecycle.New()
	errRoot := errors.New("storage root unavailable")

	lc.OnStartup(func() error { return nil })
	lc.OnStartup(func() error { return errRoot })

	err := lc.WaitForStartup()
	if !errors.Is(err, errRoot) {
		t.Fatalf("WaitForStartup = %v, want %v", err, errRoot)
	}
	if lc.Ready() {
		t.Error("ready despite failed startup hook")
	}
}

func TestReadinessChecks(t *testing.T) {
	lc := lifecycle.New()
	bank := &flag{}
	lc.Check("options", bank)

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	if lc.Ready() {
		t.Error("ready while check is failing")
	}

	bank.ok.Store(true)
	if !lc.Ready() {
		t.Error("not ready once check passes")
	}
}

func TestShutdownHooksRun(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
	close(release)
}
