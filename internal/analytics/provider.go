package analytics

import "github.com/insighthire/insighthire-backend/internal/database"

// Trends is the aggregated view the dashboard charts consume.
type Trends struct {
	JobRoleID string                 `json:"job_role_id"`
	Days      int                    `json:"days"`
	Points    []database.TrendPoint  `json:"points"`
	Source    string                 `json:"source"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

// TrendProvider is the seam between the dashboard and whatever produces
// aggregated trend data. The scoring core never depends on this; it only
// feeds the reports the store-backed provider aggregates.
type TrendProvider interface {
	RoleTrends(jobRoleID string, days int) (*Trends, error)
}
