package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestCheckBasic(t *testing.T) {
	ctx := context.Background()

	if got := NewHealthChecker(fakePinger{}, nil, "").CheckBasic(ctx); got.Status != "healthy" {
		t.Errorf("expected healthy, got %+v", got)
	}

	got := NewHealthChecker(fakePinger{err: errors.New("down")}, nil, "").CheckBasic(ctx)
	if got.Status != "unhealthy" || got.Database.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %+v", got)
	}
}

func TestCheckDetailed(t *testing.T) {
	ctx := context.Background()

	t.Run("no cache configured", func(t *testing.T) {
		got := NewHealthChecker(fakePinger{}, nil, t.TempDir()).CheckDetailed(ctx)
		if got.Status != "healthy" || got.Cache != nil {
			t.Errorf("unexpected status %+v", got)
		}
		if got.Uptime == "" {
			t.Error("expected uptime")
		}
	})

	t.Run("cache down degrades", func(t *testing.T) {
		got := NewHealthChecker(fakePinger{}, func() bool { return false }, "").CheckDetailed(ctx)
		if got.Status != "degraded" || got.Cache == nil || got.Cache.Status != "unhealthy" {
			t.Errorf("unexpected status %+v", got)
		}
	})

	t.Run("database down wins", func(t *testing.T) {
		got := NewHealthChecker(fakePinger{err: errors.New("down")}, func() bool { return false }, "").CheckDetailed(ctx)
		if got.Status != "unhealthy" {
			t.Errorf("expected unhealthy, got %s", got.Status)
		}
	})
}

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		512 * 1024 * 1024:      "512.0 MB",
		3 * 1024 * 1024 * 1024: "3.0 GB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %s, want %s", in, got, want)
		}
	}
}
