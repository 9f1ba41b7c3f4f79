package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/insighthire/insighthire-backend/internal/scoring"
	"github.com/insighthire/insighthire-backend/internal/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// --- users ---

// CreateUser inserts a new HR user account.
func (r *Repository) CreateUser(user *User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail looks up a user account by email.
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var user User
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// --- job roles ---

// CreateJobRole inserts a new job role.
func (r *Repository) CreateJobRole(role *JobRole) error {
	_, err := r.db.Exec(`
		INSERT INTO job_roles (id, title, description, hand_confidence, eye_confidence, voice_confidence, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, role.ID, role.Title, role.Description, role.HandConfidence, role.EyeConfidence, role.VoiceConfidence,
		role.CreatedBy, role.CreatedAt, role.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job role: %w", err)
	}

	return nil
}

func scanJobRole(row interface{ Scan(...any) error }) (*JobRole, error) {
	var role JobRole
	err := row.Scan(&role.ID, &role.Title, &role.Description,
		&role.HandConfidence, &role.EyeConfidence, &role.VoiceConfidence,
		&role.CreatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetJobRole fetches one job role by ID.
func (r *Repository) GetJobRole(id string) (*JobRole, error) {
	role, err := scanJobRole(r.db.QueryRow(`
		SELECT id, title, description, hand_confidence, eye_confidence, voice_confidence, created_by, created_at, updated_at
		FROM job_roles WHERE id = ?
	`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query job role: %w", err)
	}

	return role, nil
}

// ListJobRoles returns all job roles, newest first.
func (r *Repository) ListJobRoles() ([]JobRole, error) {
	rows, err := r.db.Query(`
		SELECT id, title, description, hand_confidence, eye_confidence, voice_confidence, created_by, created_at, updated_at
		FROM job_roles ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job roles: %w", err)
	}
	defer rows.Close()

	roles := make([]JobRole, 0)
	for rows.Next() {
		role, err := scanJobRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job role: %w", err)
		}
		roles = append(roles, *role)
	}

	return roles, rows.Err()
}

// UpdateJobRole rewrites a job role's mutable fields.
func (r *Repository) UpdateJobRole(role *JobRole) error {
	res, err := r.db.Exec(`
		UPDATE job_roles SET title = ?, description = ?, hand_confidence = ?, eye_confidence = ?, voice_confidence = ?, updated_at = ?
		WHERE id = ?
	`, role.Title, role.Description, role.HandConfidence, role.EyeConfidence, role.VoiceConfidence, time.Now(), role.ID)

	if err != nil {
		return fmt.Errorf("failed to update job role: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteJobRole removes a job role.
func (r *Repository) DeleteJobRole(id string) error {
	res, err := r.db.Exec(`DELETE FROM job_roles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job role: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// --- interview sessions ---

// CreateSession inserts a new interview session.
func (r *Repository) CreateSession(session *InterviewSession) error {
	_, err := r.db.Exec(`
		INSERT INTO interview_sessions (id, candidate_name, job_role_id, user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.CandidateName, session.JobRoleID, session.UserID, session.Status,
		session.CreatedAt, session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession fetches one interview session by ID.
func (r *Repository) GetSession(id string) (*InterviewSession, error) {
	var s InterviewSession
	err := r.db.QueryRow(`
		SELECT id, candidate_name, job_role_id, user_id, status, created_at, updated_at
		FROM interview_sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.CandidateName, &s.JobRoleID, &s.UserID, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

// SetSessionStatus transitions a session's lifecycle state.
func (r *Repository) SetSessionStatus(id, status string) error {
	res, err := r.db.Exec(`
		UPDATE interview_sessions SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id)

	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteSessionData removes a session together with its telemetry and
// reports. Candidate telemetry is personal data; deletion must not leave
// orphaned samples behind.
func (r *Repository) DeleteSessionData(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM telemetry_records WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete telemetry: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM scoring_reports WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM interview_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// --- telemetry records ---

func nullableSignal(v *types.ConfidenceSignal) any {
	if v == nil {
		return nil
	}
	return v.Confidence
}

// InsertRecords appends a batch of telemetry samples to a session in one
// transaction.
func (r *Repository) InsertRecords(sessionID string, records []types.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := r.db.GetPreparedStatement("insert_record")
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, rec := range records {
		var stress any
		if rec.FaceStress != nil {
			stress = rec.FaceStress.Stress
		}

		sampledAt := rec.SampledAt
		if sampledAt.IsZero() {
			sampledAt = time.Now()
		}

		_, err := txStmt.Exec(uuid.New().String(), sessionID,
			nullableSignal(rec.HandConfidence),
			nullableSignal(rec.EyeConfidence),
			nullableSignal(rec.VoiceConfidence),
			stress, sampledAt)
		if err != nil {
			return fmt.Errorf("failed to insert telemetry record: %w", err)
		}
	}

	return tx.Commit()
}

// GetSessionRecords returns a session's telemetry in sampling order.
func (r *Repository) GetSessionRecords(sessionID string) ([]types.TelemetryRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_records_by_session")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry records: %w", err)
	}
	defer rows.Close()

	records := make([]types.TelemetryRecord, 0)
	for rows.Next() {
		var hand, eye, voice, stress sql.NullInt64
		var sampledAt time.Time

		if err := rows.Scan(&hand, &eye, &voice, &stress, &sampledAt); err != nil {
			return nil, fmt.Errorf("failed to scan telemetry record: %w", err)
		}

		rec := types.TelemetryRecord{SampledAt: sampledAt}
		if hand.Valid {
			rec.HandConfidence = &types.ConfidenceSignal{Confidence: int(hand.Int64)}
		}
		if eye.Valid {
			rec.EyeConfidence = &types.ConfidenceSignal{Confidence: int(eye.Int64)}
		}
		if voice.Valid {
			rec.VoiceConfidence = &types.ConfidenceSignal{Confidence: int(voice.Int64)}
		}
		if stress.Valid {
			rec.FaceStress = &types.StressSignal{Stress: int(stress.Int64)}
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// --- scoring reports ---

// reportComponents is the persisted per-component breakdown.
type reportComponents struct {
	Hand       scoring.ComponentResult `json:"hand"`
	Eye        scoring.ComponentResult `json:"eye"`
	Voice      scoring.ComponentResult `json:"voice"`
	JobWeights types.JobRoleWeights    `json:"job_weights"`
}

// SaveReport persists a computed scoring report for a session.
func (r *Repository) SaveReport(sessionID, userID, jobRoleID string, report scoring.Report) (*ReportRecord, error) {
	components, err := json.Marshal(reportComponents{
		Hand:       report.Hand,
		Eye:        report.Eye,
		Voice:      report.Voice,
		JobWeights: report.JobWeights,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode report components: %w", err)
	}

	record := &ReportRecord{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		UserID:            userID,
		JobRoleID:         jobRoleID,
		OverallConfidence: report.OverallConfidence,
		OverallStress:     report.OverallStress,
		ConfidenceLevel:   report.ConfidenceLevel,
		StressLevel:       report.StressLevel,
		TotalRecords:      report.TotalRecords,
		StressRecords:     report.StressRecords,
		Components:        string(components),
		JobRoleName:       report.JobRoleName,
		GeneratedAt:       report.GeneratedAt,
	}

	stmt, err := r.db.GetPreparedStatement("insert_report")
	if err != nil {
		return nil, err
	}

	_, err = stmt.Exec(record.ID, record.SessionID, record.UserID, record.JobRoleID,
		record.OverallConfidence, record.OverallStress, record.ConfidenceLevel, record.StressLevel,
		record.TotalRecords, record.StressRecords, record.Components, record.JobRoleName, record.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scoring report: %w", err)
	}

	return record, nil
}

// GetSessionReports returns a session's persisted reports, newest first.
func (r *Repository) GetSessionReports(sessionID string) ([]ReportRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_reports_by_session")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring reports: %w", err)
	}
	defer rows.Close()

	reports := make([]ReportRecord, 0)
	for rows.Next() {
		var rec ReportRecord
		err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserID, &rec.JobRoleID,
			&rec.OverallConfidence, &rec.OverallStress, &rec.ConfidenceLevel, &rec.StressLevel,
			&rec.TotalRecords, &rec.StressRecords, &rec.Components, &rec.JobRoleName, &rec.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scoring report: %w", err)
		}
		reports = append(reports, rec)
	}

	return reports, rows.Err()
}

// TrendPoint is one aggregated day of scoring activity for a job role.
type TrendPoint struct {
	Day           string  `json:"day"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgStress     float64 `json:"avg_stress"`
	Reports       int     `json:"reports"`
}

// GetRoleTrends aggregates persisted reports per day for a job role over
// the trailing window.
func (r *Repository) GetRoleTrends(jobRoleID string, days int) ([]TrendPoint, error) {
	since := time.Now().AddDate(0, 0, -days)

	rows, err := r.db.Query(`
		SELECT date(generated_at) AS day,
			AVG(overall_confidence), AVG(overall_stress), COUNT(*)
		FROM scoring_reports
		WHERE job_role_id = ? AND generated_at >= ?
		GROUP BY day ORDER BY day ASC
	`, jobRoleID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query role trends: %w", err)
	}
	defer rows.Close()

	points := make([]TrendPoint, 0)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.AvgConfidence, &p.AvgStress, &p.Reports); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
