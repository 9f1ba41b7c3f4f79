package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insighthire/insighthire-backend/internal/types"
)

func confidentRecord() types.TelemetryRecord {
	return types.TelemetryRecord{
		HandConfidence:  &types.ConfidenceSignal{Confidence: 1},
		EyeConfidence:   &types.ConfidenceSignal{Confidence: 1},
		VoiceConfidence: &types.ConfidenceSignal{Confidence: 1},
		FaceStress:      &types.StressSignal{Stress: 0},
	}
}

func repeat(r types.TelemetryRecord, n int) []types.TelemetryRecord {
	records := make([]types.TelemetryRecord, n)
	for i := range records {
		records[i] = r
	}
	return records
}

func TestComponentScore(t *testing.T) {
	tests := []struct {
		name     string
		records  []types.TelemetryRecord
		signal   Signal
		weight   float64
		expected float64
	}{
		{
			name:     "empty records score zero",
			records:  nil,
			signal:   SignalHand,
			weight:   33.33,
			expected: 0,
		},
		{
			name:     "fully confident reaches weight over 100",
			records:  repeat(confidentRecord(), 4),
			signal:   SignalHand,
			weight:   50,
			expected: 0.5,
		},
		{
			name: "missing sub-structure counts as not confident",
			records: []types.TelemetryRecord{
				{HandConfidence: &types.ConfidenceSignal{Confidence: 1}},
				{},
			},
			signal:   SignalHand,
			weight:   100,
			expected: 0.5,
		},
		{
			name: "confidence flag other than one counts as not confident",
			records: []types.TelemetryRecord{
				{EyeConfidence: &types.ConfidenceSignal{Confidence: 0}},
				{EyeConfidence: &types.ConfidenceSignal{Confidence: 1}},
			},
			signal:   SignalEye,
			weight:   100,
			expected: 0.5,
		},
		{
			name:     "signals are independent",
			records:  []types.TelemetryRecord{{VoiceConfidence: &types.ConfidenceSignal{Confidence: 1}}},
			signal:   SignalHand,
			weight:   100,
			expected: 0,
		},
		{
			name:     "zero weight scores zero",
			records:  repeat(confidentRecord(), 3),
			signal:   SignalVoice,
			weight:   0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComponentScore(tt.records, tt.signal, tt.weight)
			assert.InDelta(t, tt.expected, result, 1e-9)
		})
	}
}

func TestComponentScore_BoundedByWeight(t *testing.T) {
	records := repeat(confidentRecord(), 7)
	for _, weight := range []float64{0, 10, 33.33, 50, 100} {
		score := ComponentScore(records, SignalHand, weight)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, weight/100+1e-12)
	}
}

func TestResolveWeights(t *testing.T) {
	tests := []struct {
		name     string
		jobRole  *types.JobRole
		expected types.JobRoleWeights
	}{
		{
			name:     "nil job role falls back to defaults",
			jobRole:  nil,
			expected: types.JobRoleWeights{HandConfidence: 33.33, EyeConfidence: 33.33, VoiceConfidence: 33.33},
		},
		{
			name: "supplied weights are used",
			jobRole: &types.JobRole{
				ConfidenceLevels: types.JobRoleWeights{HandConfidence: 50, EyeConfidence: 25, VoiceConfidence: 25},
			},
			expected: types.JobRoleWeights{HandConfidence: 50, EyeConfidence: 25, VoiceConfidence: 25},
		},
		{
			name: "zero weight is replaced per field",
			jobRole: &types.JobRole{
				ConfidenceLevels: types.JobRoleWeights{HandConfidence: 0, EyeConfidence: 40, VoiceConfidence: 0},
			},
			expected: types.JobRoleWeights{HandConfidence: 33.33, EyeConfidence: 40, VoiceConfidence: 33.33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveWeights(tt.jobRole))
		})
	}
}

func TestOverallConfidence_EmptyRecords(t *testing.T) {
	result := OverallConfidence(nil, nil)

	assert.Zero(t, result.OverallConfidence)
	assert.Zero(t, result.TotalRecords)
	assert.Equal(t, 33.33, result.JobWeights.HandConfidence)
}

func TestOverallConfidence_DefaultWeightsFullyConfident(t *testing.T) {
	records := repeat(confidentRecord(), 10)

	result := OverallConfidence(records, nil)

	// 3 x 33.33 with every record confident.
	assert.InDelta(t, 99.99, result.OverallConfidence, 1e-9)
	assert.Equal(t, 10, result.TotalRecords)
	assert.True(t, result.Hand.Computable)
	assert.InDelta(t, 100, result.Hand.Percentage, 1e-9)
	assert.InDelta(t, 0.3333, result.Hand.WeightedScore, 1e-9)
}

func TestOverallConfidence_CustomWeightsSumToHundred(t *testing.T) {
	records := repeat(confidentRecord(), 5)
	jobRole := &types.JobRole{
		Name:             "Backend Engineer",
		ConfidenceLevels: types.JobRoleWeights{HandConfidence: 50, EyeConfidence: 25, VoiceConfidence: 25},
	}

	result := OverallConfidence(records, jobRole)

	assert.InDelta(t, 100, result.OverallConfidence, 1e-9)
	assert.Equal(t, jobRole.ConfidenceLevels, result.JobWeights)
}

func TestOverallConfidence_MonotonicInConfidentRecords(t *testing.T) {
	records := []types.TelemetryRecord{
		{HandConfidence: &types.ConfidenceSignal{Confidence: 1}},
		{},
		{EyeConfidence: &types.ConfidenceSignal{Confidence: 1}},
	}

	previous := OverallConfidence(records, nil).OverallConfidence
	for i := 0; i < 20; i++ {
		records = append(records, confidentRecord())
		current := OverallConfidence(records, nil).OverallConfidence
		assert.GreaterOrEqual(t, current, previous-1e-9,
			"adding a confident record must never decrease the overall confidence")
		previous = current
	}
}

func TestOverallStress(t *testing.T) {
	tests := []struct {
		name            string
		records         []types.TelemetryRecord
		expectedStress  float64
		expectedTotal   int
		expectedFlagged int
	}{
		{
			name:    "empty records",
			records: nil,
		},
		{
			name: "half stressed with rest omitting face_stress",
			records: append(
				repeat(types.TelemetryRecord{FaceStress: &types.StressSignal{Stress: 1}}, 5),
				repeat(types.TelemetryRecord{}, 5)...,
			),
			expectedStress:  50,
			expectedTotal:   10,
			expectedFlagged: 5,
		},
		{
			name:            "no stress flags",
			records:         repeat(confidentRecord(), 4),
			expectedTotal:   4,
			expectedFlagged: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OverallStress(tt.records)
			assert.InDelta(t, tt.expectedStress, result.OverallStress, 1e-9)
			assert.Equal(t, tt.expectedTotal, result.TotalRecords)
			assert.Equal(t, tt.expectedFlagged, result.StressRecords)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{100, "Very High"},
		{80, "Very High"},
		{79.99, "High"},
		{60, "High"},
		{59.99, "Medium"},
		{40, "Medium"},
		{39.99, "Low"},
		{20, "Low"},
		{19.99, "Very Low"},
		{0, "Very Low"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Level(tt.score), "score %.2f", tt.score)
	}
}

func TestFinalScores_ReferenceScenario(t *testing.T) {
	records := repeat(confidentRecord(), 10)

	report := FinalScores(records, nil)

	assert.InDelta(t, 99.99, report.OverallConfidence, 1e-9)
	assert.Zero(t, report.OverallStress)
	assert.Equal(t, 10, report.TotalRecords)
	assert.Zero(t, report.StressRecords)
	assert.Equal(t, "Very High", report.ConfidenceLevel)
	assert.Equal(t, "Very Low", report.StressLevel)
	assert.Equal(t, "Unknown", report.JobRoleName)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestFinalScores_EmptyRecords(t *testing.T) {
	report := FinalScores(nil, nil)

	assert.Zero(t, report.OverallConfidence)
	assert.Zero(t, report.OverallStress)
	assert.Zero(t, report.TotalRecords)
	assert.Equal(t, "Very Low", report.ConfidenceLevel)
	assert.Equal(t, "Very Low", report.StressLevel)
}

func TestFinalScores_JobRoleEchoedAndFresh(t *testing.T) {
	jobRole := &types.JobRole{
		Name:             "Data Analyst",
		ConfidenceLevels: types.JobRoleWeights{HandConfidence: 50, EyeConfidence: 25, VoiceConfidence: 25},
	}
	records := repeat(confidentRecord(), 3)

	first := FinalScores(records, jobRole)
	second := FinalScores(records, jobRole)

	require.Equal(t, "Data Analyst", first.JobRoleName)
	assert.Equal(t, jobRole.ConfidenceLevels, first.JobWeights)

	// Each invocation allocates a fresh report; mutating one must not leak
	// into the next.
	first.OverallConfidence = -1
	assert.InDelta(t, 100, second.OverallConfidence, 1e-9)
}

func TestFinalScores_MalformedRecordsDegradeGracefully(t *testing.T) {
	records := []types.TelemetryRecord{
		{},
		{HandConfidence: &types.ConfidenceSignal{Confidence: 7}},
		{FaceStress: &types.StressSignal{Stress: 2}},
	}

	report := FinalScores(records, nil)

	assert.Zero(t, report.OverallConfidence)
	assert.Zero(t, report.OverallStress)
	assert.Equal(t, 3, report.TotalRecords)
}

func TestOverallConfidence_PercentageIsRatioOutOfHundred(t *testing.T) {
	// 5 of 10 records hand-confident: the component percentage must report
	// the ratio on a 0-100 scale regardless of the component's weight.
	records := append(
		repeat(types.TelemetryRecord{HandConfidence: &types.ConfidenceSignal{Confidence: 1}}, 5),
		repeat(types.TelemetryRecord{}, 5)...,
	)

	for _, weight := range []float64{10, 33.33, 50, 100} {
		jobRole := &types.JobRole{
			ConfidenceLevels: types.JobRoleWeights{HandConfidence: weight, EyeConfidence: 25, VoiceConfidence: 25},
		}

		result := OverallConfidence(records, jobRole)

		assert.True(t, result.Hand.Computable)
		assert.InDelta(t, 50, result.Hand.Percentage, 1e-9, "weight %v", weight)
		assert.InDelta(t, 0.5*weight/100, result.Hand.WeightedScore, 1e-9, "weight %v", weight)
	}
}
