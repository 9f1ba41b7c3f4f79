package analytics

import (
	"hash/fnv"
	"math"
	"time"

	"github.com/insighthire/insighthire-backend/internal/database"
)

// SampleProvider serves deterministic fixture trends. It stands in for the
// store-backed provider before any reports exist, so the dashboard charts
// have something to render in a fresh deployment.
type SampleProvider struct{}

// NewSampleProvider creates a fixture-backed provider.
func NewSampleProvider() *SampleProvider {
	return &SampleProvider{}
}

// RoleTrends synthesizes a smooth per-day series seeded by the role ID, so
// the same role always charts the same curve.
func (p *SampleProvider) RoleTrends(jobRoleID string, days int) (*Trends, error) {
	if days <= 0 {
		days = 30
	}

	h := fnv.New32a()
	h.Write([]byte(jobRoleID))
	seed := float64(h.Sum32() % 20)

	now := time.Now()
	points := make([]database.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		phase := float64(days-i) / 4.0

		points = append(points, database.TrendPoint{
			Day:           day.Format("2006-01-02"),
			AvgConfidence: clamp(60+seed+10*math.Sin(phase), 0, 100),
			AvgStress:     clamp(35-seed/2+8*math.Cos(phase), 0, 100),
			Reports:       3 + int(seed)%4,
		})
	}

	return &Trends{
		JobRoleID: jobRoleID,
		Days:      days,
		Points:    points,
		Source:    "sample",
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
