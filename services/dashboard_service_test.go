package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/utils/cache"
)

type fakeDashboardSource struct {
	calls int
	stats model.DashboardStats
	err   error
}

func (f *fakeDashboardSource) UserDashboard(_ context.Context, token string) (*model.DashboardStats, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.stats
	return &s, nil
}

func newDashboardService(src DashboardSource, now *time.Time) *DashboardService {
	c := cache.NewMemoryCache().WithClock(func() time.Time { return *now })
	s := NewDashboardService(src, c, 5*time.Minute)
	s.now = func() time.Time { return *now }
	s.rand = rand.New(rand.NewSource(7))
	return s
}

func TestDashboardCachesPerSession(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	src := &fakeDashboardSource{stats: model.DashboardStats{
		CompletedTasks:      3,
		MyTasks:             4,
		RecentNotifications: []model.Notification{{ID: 1, Title: "مراجعة"}},
	}}
	s := newDashboardService(src, &now)
	ctx := context.Background()

	first, err := s.Load(ctx, "sess-a", "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Quality) != QualityPoints || len(first.Notifications) != 1 {
		t.Fatalf("snapshot = %+v", first)
	}

	now = now.Add(4 * time.Minute)
	second, _ := s.Load(ctx, "sess-a", "tok")
	if src.calls != 1 {
		t.Fatalf("fresh snapshot should be served from cache, calls = %d", src.calls)
	}
	for i := range first.Quality {
		if first.Quality[i] != second.Quality[i] {
			t.Fatal("cached quality values changed")
		}
	}

	s.Load(ctx, "sess-b", "tok")
	if src.calls != 2 {
		t.Fatalf("another session must not share the cache, calls = %d", src.calls)
	}

	now = now.Add(2 * time.Minute)
	s.Load(ctx, "sess-a", "tok")
	if src.calls != 3 {
		t.Fatalf("stale snapshot should refetch, calls = %d", src.calls)
	}
}

func TestDashboardInvalidate(t *testing.T) {
	now := time.Now()
	src := &fakeDashboardSource{}
	s := newDashboardService(src, &now)
	ctx := context.Background()

	s.Load(ctx, "sess", "tok")
	s.Invalidate(ctx, "sess")
	s.Load(ctx, "sess", "tok")
	if src.calls != 2 {
		t.Fatalf("calls = %d", src.calls)
	}
}

func TestDashboardFailureIsNotCached(t *testing.T) {
	now := time.Now()
	src := &fakeDashboardSource{err: errors.New("backend error (status 500)")}
	s := newDashboardService(src, &now)
	ctx := context.Background()

	if _, err := s.Load(ctx, "sess", "tok"); err == nil {
		t.Fatal("expected error")
	}
	src.err = nil
	if _, err := s.Load(ctx, "sess", "tok"); err != nil || src.calls != 2 {
		t.Fatalf("retry after failure: err=%v calls=%d", err, src.calls)
	}
}

func TestQualityMetricsStayInRange(t *testing.T) {
	now := time.Now()
	s := newDashboardService(&fakeDashboardSource{}, &now)
	for _, base := range []float64{0, 50, 100} {
		for _, v := range s.QualityMetrics(base) {
			if v < 0 || v > 100 || v < base-15 || v > base+15 {
				t.Fatalf("base %v produced %v", base, v)
			}
		}
	}
}

func TestBuildQualityChart(t *testing.T) {
	now := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	chart := BuildQualityChart(i18n.Arabic, []float64{100, 0, 50, 50, 50, 50}, now)
	if chart.Empty() || len(chart.Points) != 6 {
		t.Fatalf("points = %d", len(chart.Points))
	}
	if p := chart.Points[0]; p.X != 20 || math.Abs(p.Y-20) > 1e-9 || p.Label != "يونيو" {
		t.Fatalf("first point = %+v", p)
	}
	if p := chart.Points[5]; p.X != 260 || p.Label != "يناير" {
		t.Fatalf("last point = %+v", p)
	}
	if !strings.HasPrefix(chart.Line, "M 20.0 20.0 L 68.0 250.0") {
		t.Fatalf("line = %q", chart.Line)
	}
	if !strings.HasSuffix(chart.Area, "L 260.0 250 L 20 250 Z") {
		t.Fatalf("area = %q", chart.Area)
	}

	if !BuildQualityChart(i18n.English, nil, now).Empty() {
		t.Fatal("no values should give an empty chart")
	}
}
