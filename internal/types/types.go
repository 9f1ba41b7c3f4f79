package types

import "time"

// ConfidenceSignal is a single binary confidence observation for one modality.
type ConfidenceSignal struct {
	Confidence int `json:"confidence"`
}

// StressSignal is a single binary stress observation from facial analysis.
type StressSignal struct {
	Stress int `json:"stress"`
}

// TelemetryRecord is one sampled observation during an interview session.
// Any sub-structure may be absent; absence means "not confident" /
// "not stressed" for that sample, never an error.
type TelemetryRecord struct {
	HandConfidence  *ConfidenceSignal `json:"hand_confidence,omitempty"`
	EyeConfidence   *ConfidenceSignal `json:"eye_confidence,omitempty"`
	VoiceConfidence *ConfidenceSignal `json:"voice_confidence,omitempty"`
	FaceStress      *StressSignal     `json:"face_stress,omitempty"`
	SampledAt       time.Time         `json:"sampled_at,omitempty"`
}

// JobRoleWeights holds the per-role modality weights, nominally percentages
// intended to sum to 100 (not enforced).
type JobRoleWeights struct {
	HandConfidence  float64 `json:"hand_confidence"`
	EyeConfidence   float64 `json:"eye_confidence"`
	VoiceConfidence float64 `json:"voice_confidence"`
}

// JobRole carries the weighting profile attached to a position.
type JobRole struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ConfidenceLevels JobRoleWeights `json:"confidence_levels"`
}

// IngestRequest is the payload for posting telemetry records to a session.
type IngestRequest struct {
	Records []TelemetryRecord `json:"records" binding:"required"`
}

// RegisterRequest is the payload for creating an HR user account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the payload for authenticating an HR user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// JobRoleRequest is the payload for creating or updating a job role.
type JobRoleRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	HandConfidence  float64 `json:"hand_confidence"`
	EyeConfidence   float64 `json:"eye_confidence"`
	VoiceConfidence float64 `json:"voice_confidence"`
}

// SessionRequest is the payload for opening an interview session.
type SessionRequest struct {
	CandidateName string `json:"candidate_name" binding:"required"`
	JobRoleID     string `json:"job_role_id" binding:"required"`
}
