package scoring

import (
	"time"

	"github.com/insighthire/insighthire-backend/internal/types"
)

// Signal identifies one confidence modality in a telemetry record.
type Signal string

const (
	SignalHand  Signal = "hand_confidence"
	SignalEye   Signal = "eye_confidence"
	SignalVoice Signal = "voice_confidence"
)

// ComponentResult reports one modality's share of the overall confidence.
// Percentage is the confidence ratio re-expressed against the component's
// weight; Computable is false when the weight was zero and the percentage
// could not be derived without dividing by zero.
type ComponentResult struct {
	Percentage    float64 `json:"percentage"`
	WeightedScore float64 `json:"weighted_score"`
	Computable    bool    `json:"computable"`
}

// ConfidenceResult is the outcome of the overall-confidence computation.
type ConfidenceResult struct {
	Hand              ComponentResult      `json:"hand"`
	Eye               ComponentResult      `json:"eye"`
	Voice             ComponentResult      `json:"voice"`
	OverallConfidence float64              `json:"overall_confidence"`
	TotalRecords      int                  `json:"total_records"`
	JobWeights        types.JobRoleWeights `json:"job_weights"`
}

// StressResult is the outcome of the overall-stress computation.
type StressResult struct {
	OverallStress float64 `json:"overall_stress"`
	TotalRecords  int     `json:"total_records"`
	StressRecords int     `json:"stress_records"`
}

// Report is the immutable scoring report produced by FinalScores. A new
// report replaces the old one; nothing mutates a report in place.
type Report struct {
	Hand              ComponentResult      `json:"hand"`
	Eye               ComponentResult      `json:"eye"`
	Voice             ComponentResult      `json:"voice"`
	OverallConfidence float64              `json:"overall_confidence"`
	OverallStress     float64              `json:"overall_stress"`
	TotalRecords      int                  `json:"total_records"`
	StressRecords     int                  `json:"stress_records"`
	ConfidenceLevel   string               `json:"confidence_level"`
	StressLevel       string               `json:"stress_level"`
	JobWeights        types.JobRoleWeights `json:"job_weights"`
	JobRoleName       string               `json:"job_role_name"`
	GeneratedAt       time.Time            `json:"generated_at"`
}
