package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleProvider_Deterministic(t *testing.T) {
	provider := NewSampleProvider()

	first, err := provider.RoleTrends("role-1", 14)
	require.NoError(t, err)
	second, err := provider.RoleTrends("role-1", 14)
	require.NoError(t, err)

	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, "sample", first.Source)
	assert.Len(t, first.Points, 14)
}

func TestSampleProvider_ValuesInRange(t *testing.T) {
	provider := NewSampleProvider()

	trends, err := provider.RoleTrends("role-2", 30)
	require.NoError(t, err)

	for _, p := range trends.Points {
		assert.GreaterOrEqual(t, p.AvgConfidence, 0.0)
		assert.LessOrEqual(t, p.AvgConfidence, 100.0)
		assert.GreaterOrEqual(t, p.AvgStress, 0.0)
		assert.LessOrEqual(t, p.AvgStress, 100.0)
		assert.Greater(t, p.Reports, 0)
	}
}

func TestSampleProvider_DefaultWindow(t *testing.T) {
	provider := NewSampleProvider()

	trends, err := provider.RoleTrends("role-3", 0)
	require.NoError(t, err)

	assert.Equal(t, 30, trends.Days)
	assert.Len(t, trends.Points, 30)
}

func TestSampleProvider_DifferentRolesDiffer(t *testing.T) {
	provider := NewSampleProvider()

	a, err := provider.RoleTrends("alpha", 7)
	require.NoError(t, err)
	b, err := provider.RoleTrends("omega-role", 7)
	require.NoError(t, err)

	// Seeded by role ID; distinct roles should not chart identical curves.
	assert.NotEqual(t, a.Points, b.Points)
}
