package analytics

import "github.com/insighthire/insighthire-backend/internal/database"

// StoreProvider aggregates persisted scoring reports into daily trends.
type StoreProvider struct {
	repo *database.Repository
}

// NewStoreProvider creates a provider backed by the report store.
func NewStoreProvider(repo *database.Repository) *StoreProvider {
	return &StoreProvider{repo: repo}
}

// RoleTrends returns per-day confidence/stress averages for a job role.
func (p *StoreProvider) RoleTrends(jobRoleID string, days int) (*Trends, error) {
	if days <= 0 {
		days = 30
	}

	points, err := p.repo.GetRoleTrends(jobRoleID, days)
	if err != nil {
		return nil, err
	}

	return &Trends{
		JobRoleID: jobRoleID,
		Days:      days,
		Points:    points,
		Source:    "store",
	}, nil
}
