package scoring

import (
	"time"

	"github.com/insighthire/insighthire-backend/internal/types"
)

// defaultWeight is applied per field whenever a job role omits a weight or
// sets it to zero. A zero weight is indistinguishable from "unset" and is
// always replaced, matching the dashboard's historical behavior.
const defaultWeight = 33.33

// Level thresholds shared by confidence and stress, inclusive on the lower
// bound of each bracket.
const (
	levelVeryHigh = 80
	levelHigh     = 60
	levelMedium   = 40
	levelLow      = 20
)

func signalConfident(r types.TelemetryRecord, s Signal) bool {
	switch s {
	case SignalHand:
		return r.HandConfidence != nil && r.HandConfidence.Confidence == 1
	case SignalEye:
		return r.EyeConfidence != nil && r.EyeConfidence.Confidence == 1
	case SignalVoice:
		return r.VoiceConfidence != nil && r.VoiceConfidence.Confidence == 1
	}
	return false
}

// ComponentScore computes the weighted fractional score for one modality:
// the share of records confident in that signal, scaled by weight/100.
// The result is always in [0, weight/100] and monotonic in the number of
// confident records. An empty record list scores 0.
func ComponentScore(records []types.TelemetryRecord, signal Signal, weight float64) float64 {
	if len(records) == 0 {
		return 0
	}

	confident := 0
	for _, r := range records {
		if signalConfident(r, signal) {
			confident++
		}
	}

	ratio := float64(confident) / float64(len(records))
	return (ratio * weight) / 100
}

// ResolveWeights fills in the per-field default for any weight the job role
// leaves unset or zero. A nil job role resolves to all defaults.
func ResolveWeights(jobRole *types.JobRole) types.JobRoleWeights {
	w := types.JobRoleWeights{
		HandConfidence:  defaultWeight,
		EyeConfidence:   defaultWeight,
		VoiceConfidence: defaultWeight,
	}
	if jobRole == nil {
		return w
	}
	if jobRole.ConfidenceLevels.HandConfidence != 0 {
		w.HandConfidence = jobRole.ConfidenceLevels.HandConfidence
	}
	if jobRole.ConfidenceLevels.EyeConfidence != 0 {
		w.EyeConfidence = jobRole.ConfidenceLevels.EyeConfidence
	}
	if jobRole.ConfidenceLevels.VoiceConfidence != 0 {
		w.VoiceConfidence = jobRole.ConfidenceLevels.VoiceConfidence
	}
	return w
}

func componentResult(score, weight float64) ComponentResult {
	cs := ComponentResult{WeightedScore: score}
	if weight == 0 {
		// Percentage would be a division by zero; report it as not
		// computable instead of letting NaN reach a persisted report.
		return cs
	}
	// score is the weighted fraction ratio*weight/100, so recovering the
	// ratio needs the extra factor of 100 before re-scaling to 0-100.
	cs.Percentage = (score * 100 / weight) * 100
	cs.Computable = true
	return cs
}

// OverallConfidence combines the three weighted component scores into a
// 0-100 confidence figure, carrying the resolved weights and the record
// count alongside the per-component results.
func OverallConfidence(records []types.TelemetryRecord, jobRole *types.JobRole) ConfidenceResult {
	weights := ResolveWeights(jobRole)

	handScore := ComponentScore(records, SignalHand, weights.HandConfidence)
	eyeScore := ComponentScore(records, SignalEye, weights.EyeConfidence)
	voiceScore := ComponentScore(records, SignalVoice, weights.VoiceConfidence)

	return ConfidenceResult{
		Hand:              componentResult(handScore, weights.HandConfidence),
		Eye:               componentResult(eyeScore, weights.EyeConfidence),
		Voice:             componentResult(voiceScore, weights.VoiceConfidence),
		OverallConfidence: (handScore + eyeScore + voiceScore) * 100,
		TotalRecords:      len(records),
		JobWeights:        weights,
	}
}

// OverallStress computes the share of records flagged as stressed, on a
// 0-100 scale. Records without a face_stress sub-structure count as not
// stressed.
func OverallStress(records []types.TelemetryRecord) StressResult {
	if len(records) == 0 {
		return StressResult{}
	}

	stressed := 0
	for _, r := range records {
		if r.FaceStress != nil && r.FaceStress.Stress == 1 {
			stressed++
		}
	}

	return StressResult{
		OverallStress: float64(stressed) / float64(len(records)) * 100,
		TotalRecords:  len(records),
		StressRecords: stressed,
	}
}

// Level maps a 0-100 score to its descriptive label. Brackets are inclusive
// on the lower bound: exactly 80 is "Very High", exactly 20 is "Low".
func Level(score float64) string {
	switch {
	case score >= levelVeryHigh:
		return "Very High"
	case score >= levelHigh:
		return "High"
	case score >= levelMedium:
		return "Medium"
	case score >= levelLow:
		return "Low"
	default:
		return "Very Low"
	}
}

// FinalScores produces a fresh scoring report for one session's telemetry.
// It is deterministic apart from the generation timestamp, allocates all of
// its output, and never returns an error: malformed records degrade to
// negative signals rather than failing.
func FinalScores(records []types.TelemetryRecord, jobRole *types.JobRole) Report {
	confidence := OverallConfidence(records, jobRole)
	stress := OverallStress(records)

	roleName := "Unknown"
	if jobRole != nil && jobRole.Name != "" {
		roleName = jobRole.Name
	}

	return Report{
		Hand:              confidence.Hand,
		Eye:               confidence.Eye,
		Voice:             confidence.Voice,
		OverallConfidence: confidence.OverallConfidence,
		OverallStress:     stress.OverallStress,
		TotalRecords:      confidence.TotalRecords,
		StressRecords:     stress.StressRecords,
		ConfidenceLevel:   Level(confidence.OverallConfidence),
		StressLevel:       Level(stress.OverallStress),
		JobWeights:        confidence.JobWeights,
		JobRoleName:       roleName,
		GeneratedAt:       time.Now().UTC(),
	}
}
