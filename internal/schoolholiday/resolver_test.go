package schoolholiday

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/urlaubsplaner/internal/holiday"
	"go.uber.org/zap"
)

type fakeRemote struct {
	periods []Period
	err     error
	calls   int
}

func (f *fakeRemote) Fetch(ctx context.Context, year int, region holiday.Region) ([]Period, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.periods, f.err
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	return NewCache(filepath.Join(t.TempDir(), "cache.json"), ttl, zap.NewNop())
}

func TestExpandPeriods(t *testing.T) {
	periods := []Period{
		{Start: "2025-10-06", End: "2025-10-08", Name: "Herbstferien"},
		{Start: "2025-12-30", End: "2026-01-02", Name: "Weihnachtsferien"},
		{Start: "bogus", End: "2025-01-02", Name: "Kaputt"},
	}

	m := ExpandPeriods(periods, 2025)

	want := map[string]string{
		"2025-10-06": "Herbstferien",
		"2025-10-07": "Herbstferien",
		"2025-10-08": "Herbstferien",
		"2025-12-30": "Weihnachtsferien",
		"2025-12-31": "Weihnachtsferien",
	}

	if len(m) != len(want) {
		t.Fatalf("ExpandPeriods produced %d entries, want %d: %v", len(m), len(want), m)
	}
	for key, name := range want {
		if m[key] != name {
			t.Errorf("m[%s] = %q, want %q", key, m[key], name)
		}
	}

	// The 2026 tail of Weihnachtsferien lands in the 2026 map instead
	next := ExpandPeriods(periods, 2026)
	if next["2026-01-01"] != "Weihnachtsferien" || next["2025-12-31"] != "" {
		t.Errorf("year clipping broken: %v", next)
	}
}

func TestResolveRemoteSupersedesStatic(t *testing.T) {
	remote := &fakeRemote{periods: []Period{
		{Start: "2025-07-01", End: "2025-07-03", Name: "Sommerferien (remote)"},
	}}
	r := NewResolver(remote, newTestCache(t, time.Hour), zap.NewNop())

	m, err := r.Resolve(context.Background(), 2025, holiday.Hessen)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if m["2025-07-01"] != "Sommerferien (remote)" {
		t.Errorf("remote result not used: %v", m["2025-07-01"])
	}
	// Static HE data starts Osterferien on 2025-04-07; remote replaced it
	if _, ok := m["2025-04-07"]; ok {
		t.Error("static table leaked into a successful remote resolve")
	}
}

func TestResolveFallsBackToStatic(t *testing.T) {
	remote := &fakeRemote{err: errors.New("boom")}
	r := NewResolver(remote, newTestCache(t, time.Hour), zap.NewNop())

	m, err := r.Resolve(context.Background(), 2025, holiday.Hessen)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if m["2025-04-07"] != "Osterferien" {
		t.Errorf("static fallback missing Osterferien start: %q", m["2025-04-07"])
	}
	if m["2025-08-15"] != "Sommerferien" {
		t.Errorf("static fallback missing Sommerferien end: %q", m["2025-08-15"])
	}
}

func TestResolveUnknownRegionYieldsEmptyMap(t *testing.T) {
	remote := &fakeRemote{err: errors.New("down")}
	r := NewResolver(remote, newTestCache(t, time.Hour), zap.NewNop())

	m, err := r.Resolve(context.Background(), 2025, holiday.Berlin)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty map for region without static data, got %d entries", len(m))
	}
}

func TestResolveUsesCacheBeforeRemote(t *testing.T) {
	remote := &fakeRemote{periods: []Period{
		{Start: "2025-07-01", End: "2025-07-01", Name: "Sommerferien"},
	}}
	r := NewResolver(remote, newTestCache(t, time.Hour), zap.NewNop())

	if _, err := r.Resolve(context.Background(), 2025, holiday.Hessen); err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	if _, err := r.Resolve(context.Background(), 2025, holiday.Hessen); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if remote.calls != 1 {
		t.Errorf("remote called %d times, want 1 (second resolve should hit cache)", remote.calls)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	remote := &fakeRemote{periods: []Period{
		{Start: "2025-07-01", End: "2025-07-01", Name: "Sommerferien"},
	}}
	r := NewResolver(remote, newTestCache(t, time.Hour), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, 2025, holiday.Hessen)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() with cancelled ctx error = %v, want context.Canceled", err)
	}
}

func TestResolveStaticOnly(t *testing.T) {
	r := NewResolver(nil, nil, zap.NewNop())

	m, err := r.Resolve(context.Background(), 2026, holiday.BadenWuerttemberg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Weihnachtsferien 2025 reach into January 2026
	if m["2026-01-05"] != "Weihnachtsferien" {
		t.Errorf("m[2026-01-05] = %q, want Weihnachtsferien carried over from 2025", m["2026-01-05"])
	}
	if m["2026-05-26"] != "Pfingstferien" {
		t.Errorf("m[2026-05-26] = %q, want Pfingstferien", m["2026-05-26"])
	}
}
