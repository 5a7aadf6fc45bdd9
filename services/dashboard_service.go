package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/utils/cache"
)

// QualityPoints is how many quality values the dashboard chart shows
const QualityPoints = 6

// DashboardSource fetches the signed-in user's dashboard payload
type DashboardSource interface {
	UserDashboard(ctx context.Context, token string) (*model.DashboardStats, error)
}

// DashboardSnapshot is one cached dashboard fetch. FetchedAt is explicit so the
// freshness rule does not depend on the cache backend honouring expiry.
type DashboardSnapshot struct {
	Stats         model.DashboardStats `json:"stats"`
	Notifications []model.Notification `json:"notifications"`
	Quality       []float64            `json:"quality"`
	FetchedAt     time.Time            `json:"fetchedAt"`
}

// Fresh reports whether the snapshot is younger than ttl at now
func (s *DashboardSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return s != nil && !s.FetchedAt.IsZero() && now.Sub(s.FetchedAt) < ttl
}

// DashboardService owns the per-session dashboard cache
type DashboardService struct {
	source DashboardSource
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time

	mu   sync.Mutex
	rand *rand.Rand
}

func NewDashboardService(source DashboardSource, c cache.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{
		source: source,
		cache:  c,
		ttl:    ttl,
		now:    time.Now,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func dashboardKey(sessionID string) string {
	return "dashboard:" + sessionID
}

// Load returns the cached snapshot for sessionID while it is fresh, otherwise
// fetches with token and caches the result. Failed fetches are not cached.
func (s *DashboardService) Load(ctx context.Context, sessionID, token string) (*DashboardSnapshot, error) {
	now := s.now()
	key := dashboardKey(sessionID)

	var cached DashboardSnapshot
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil && cached.Fresh(now, s.ttl) {
		return &cached, nil
	} else if err != nil && !errors.Is(err, cache.ErrNotFound) {
		log.Printf("Dashboard cache read failed for session %s: %v", sessionID, err)
	}

	stats, err := s.source.UserDashboard(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	snap := &DashboardSnapshot{
		Stats:         *stats,
		Notifications: stats.RecentNotifications,
		Quality:       s.QualityMetrics(stats.CompletedPercentage()),
		FetchedAt:     now,
	}
	if snap.Notifications == nil {
		snap.Notifications = []model.Notification{}
	}
	if err := s.cache.SetJSON(ctx, key, snap, s.ttl); err != nil {
		log.Printf("Dashboard cache write failed for session %s: %v", sessionID, err)
	}
	return snap, nil
}

// Invalidate drops the cached snapshot of one session
func (s *DashboardService) Invalidate(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, dashboardKey(sessionID))
}

// QualityMetrics spreads base by up to 15 points either way, clamped to 0..100
func (s *DashboardService) QualityMetrics(base float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, QualityPoints)
	for i := range out {
		variation := (s.rand.Float64() - 0.5) * 30
		out[i] = math.Max(0, math.Min(100, base+variation))
	}
	return out
}

// ChartPoint is one plotted value in the 300x280 chart viewBox
type ChartPoint struct {
	X, Y  float64
	Value float64
	Label string
}

// QualityChart holds the SVG geometry of the quality line chart
type QualityChart struct {
	Points []ChartPoint
	Line   string
	Area   string
}

func (c QualityChart) Empty() bool { return len(c.Points) == 0 }

// BuildQualityChart places values 48 units apart from x=20, mapping 0..100 to
// y=250..20. Labels are the months ending at now, newest first.
func BuildQualityChart(l i18n.Locale, values []float64, now time.Time) QualityChart {
	var chart QualityChart
	if len(values) == 0 {
		return chart
	}

	var line strings.Builder
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i, v := range values {
		p := ChartPoint{
			X:     20 + float64(i)*48,
			Y:     250 - v*2.3,
			Value: v,
			Label: i18n.MonthName(l, month.AddDate(0, -i, 0).Month()),
		}
		chart.Points = append(chart.Points, p)
		if i == 0 {
			fmt.Fprintf(&line, "M %.1f %.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&line, " L %.1f %.1f", p.X, p.Y)
		}
	}
	chart.Line = line.String()
	last := chart.Points[len(chart.Points)-1]
	chart.Area = fmt.Sprintf("%s L %.1f 250 L 20 250 Z", chart.Line, last.X)
	return chart
}
