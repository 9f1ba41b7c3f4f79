package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/insighthire/insighthire-backend/internal/types"
)

// User represents an HR user account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// JobRole represents a position with its modality weighting profile
type JobRole struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	HandConfidence  float64   `json:"hand_confidence" db:"hand_confidence"`
	EyeConfidence   float64   `json:"eye_confidence" db:"eye_confidence"`
	VoiceConfidence float64   `json:"voice_confidence" db:"voice_confidence"`
	CreatedBy       string    `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Weights converts the stored columns into the scoring input shape. A nil
// role yields nil, which the calculator treats as default weights.
func (jr *JobRole) Weights() *types.JobRole {
	if jr == nil {
		return nil
	}
	return &types.JobRole{
		ID:   jr.ID,
		Name: jr.Title,
		ConfidenceLevels: types.JobRoleWeights{
			HandConfidence:  jr.HandConfidence,
			EyeConfidence:   jr.EyeConfidence,
			VoiceConfidence: jr.VoiceConfidence,
		},
	}
}

// InterviewSession represents one candidate interview
type InterviewSession struct {
	ID            string    `json:"id" db:"id"`
	CandidateName string    `json:"candidate_name" db:"candidate_name"`
	JobRoleID     string    `json:"job_role_id" db:"job_role_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Status        string    `json:"status" db:"status"` // active, scored, closed
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ReportRecord is a persisted scoring report, keyed by
// (session_id, user_id, job_role_id, generated_at).
type ReportRecord struct {
	ID                string    `json:"id" db:"id"`
	SessionID         string    `json:"session_id" db:"session_id"`
	UserID            string    `json:"user_id" db:"user_id"`
	JobRoleID         string    `json:"job_role_id" db:"job_role_id"`
	OverallConfidence float64   `json:"overall_confidence" db:"overall_confidence"`
	OverallStress     float64   `json:"overall_stress" db:"overall_stress"`
	ConfidenceLevel   string    `json:"confidence_level" db:"confidence_level"`
	StressLevel       string    `json:"stress_level" db:"stress_level"`
	TotalRecords      int       `json:"total_records" db:"total_records"`
	StressRecords     int       `json:"stress_records" db:"stress_records"`
	Components        string    `json:"components" db:"components"` // JSON per-component breakdown
	JobRoleName       string    `json:"job_role_name" db:"job_role_name"`
	GeneratedAt       time.Time `json:"generated_at" db:"generated_at"`
}

// NewUser creates a new user with generated ID
func NewUser(email, passwordHash, name string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewJobRole creates a new job role with generated ID
func NewJobRole(title, description string, hand, eye, voice float64, createdBy string) *JobRole {
	now := time.Now()
	return &JobRole{
		ID:              uuid.New().String(),
		Title:           title,
		Description:     description,
		HandConfidence:  hand,
		EyeConfidence:   eye,
		VoiceConfidence: voice,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewInterviewSession creates a new session with generated ID
func NewInterviewSession(candidateName, jobRoleID, userID string) *InterviewSession {
	now := time.Now()
	return &InterviewSession{
		ID:            uuid.New().String(),
		CandidateName: candidateName,
		JobRoleID:     jobRoleID,
		UserID:        userID,
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
