package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insighthire/insighthire-backend/internal/database"
	"github.com/insighthire/insighthire-backend/internal/relay"
	"github.com/insighthire/insighthire-backend/internal/scoring"
	"github.com/insighthire/insighthire-backend/internal/types"

	apperrors "github.com/insighthire/insighthire-backend/internal/errors"
)

// --- auth ---

func (app *application) handleRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid registration payload", err.Error()))
		return
	}

	user, err := app.users.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.Error(apperrors.NewValidationError("Email already registered"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to create user", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (app *application) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid login payload", err.Error()))
		return
	}

	token, user, err := app.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.Error(apperrors.NewAuthError("Invalid email or password"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to authenticate user", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// --- job roles ---

func (app *application) handleListRoles(c *gin.Context) {
	roles, err := app.repo.ListJobRoles()
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to list job roles", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (app *application) handleCreateRole(c *gin.Context) {
	var req types.JobRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid job role payload", err.Error()))
		return
	}

	role := database.NewJobRole(req.Title, req.Description,
		req.HandConfidence, req.EyeConfidence, req.VoiceConfidence,
		c.GetString("user_id"))
	if err := app.repo.CreateJobRole(role); err != nil {
		c.Error(apperrors.NewStorageError("Failed to create job role", err))
		return
	}

	app.invalidateRoleViews(role.ID)
	c.JSON(http.StatusCreated, role)
}

func (app *application) handleGetRole(c *gin.Context) {
	role, err := app.repo.GetJobRole(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Error(apperrors.NewNotFoundError("job role"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to load job role", err))
		return
	}
	c.JSON(http.StatusOK, role)
}

func (app *application) handleUpdateRole(c *gin.Context) {
	var req types.JobRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid job role payload", err.Error()))
		return
	}

	role, err := app.repo.GetJobRole(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Error(apperrors.NewNotFoundError("job role"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to load job role", err))
		return
	}

	role.Title = req.Title
	role.Description = req.Description
	role.HandConfidence = req.HandConfidence
	role.EyeConfidence = req.EyeConfidence
	role.VoiceConfidence = req.VoiceConfidence

	if err := app.repo.UpdateJobRole(role); err != nil {
		c.Error(apperrors.NewStorageError("Failed to update job role", err))
		return
	}

	app.invalidateRoleViews(role.ID)
	c.JSON(http.StatusOK, role)
}

func (app *application) handleDeleteRole(c *gin.Context) {
	id := c.Param("id")
	if err := app.repo.DeleteJobRole(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Error(apperrors.NewNotFoundError("job role"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to delete job role", err))
		return
	}

	app.invalidateRoleViews(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// invalidateRoleViews drops cached role and analytics responses and notifies
// dashboard subscribers after a role mutation.
func (app *application) invalidateRoleViews(roleID string) {
	app.appCache.InvalidatePrefix("/api/roles")
	app.appCache.InvalidatePrefix("/api/analytics")
	app.bus.Publish(relay.Event{
		Type:      relay.EventRoleChanged,
		JobRoleID: roleID,
	})
}

// --- interview sessions ---

func (app *application) handleCreateSession(c *gin.Context) {
	var req types.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid session payload", err.Error()))
		return
	}

	if _, err := app.repo.GetJobRole(req.JobRoleID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Error(apperrors.NewNotFoundError("job role"))
			return
		}
		c.Error(apperrors.NewStorageError("Failed to load job role", err))
		return
	}

	session := database.NewInterviewSession(req.CandidateName, req.JobRoleID, c.GetString("user_id"))
	if err := app.repo.CreateSession(session); err != nil {
		c.Error(apperrors.NewStorageError("Failed to create session", err))
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ownedSession loads a session and verifies it belongs to the authenticated
// user. Foreign sessions are reported as not found rather than forbidden.
func (app *application) ownedSession(c *gin.Context) (*database.InterviewSession, bool) {
	session, err := app.repo.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Error(apperrors.NewNotFoundError("session"))
			return nil, false
		}
		c.Error(apperrors.NewStorageError("Failed to load session", err))
		return nil, false
	}
	if session.UserID != c.GetString("user_id") {
		c.Error(apperrors.NewNotFoundError("session"))
		return nil, false
	}
	return session, true
}

func (app *application) handleGetSession(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (app *application) handleDeleteSession(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}

	if err := app.repo.DeleteSessionData(session.ID); err != nil {
		c.Error(apperrors.NewStorageError("Failed to delete session data", err))
		return
	}

	app.appCache.InvalidatePrefix("/api/analytics")
	app.bus.Publish(relay.Event{
		Type:      relay.EventSessionUpdated,
		SessionID: session.ID,
		JobRoleID: session.JobRoleID,
		Payload:   gin.H{"status": "deleted"},
	})
	c.JSON(http.StatusOK, gin.H{"deleted": session.ID})
}

// --- telemetry records ---

func (app *application) handleIngestRecords(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}

	var req types.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("Invalid telemetry payload", err.Error()))
		return
	}
	if len(req.Records) == 0 {
		c.Error(apperrors.NewValidationError("No telemetry records provided"))
		return
	}

	if err := app.repo.InsertRecords(session.ID, req.Records); err != nil {
		c.Error(apperrors.NewStorageError("Failed to store telemetry", err))
		return
	}

	app.bus.Publish(relay.Event{
		Type:      relay.EventSessionUpdated,
		SessionID: session.ID,
		JobRoleID: session.JobRoleID,
		Payload:   gin.H{"records_added": len(req.Records)},
	})
	c.JSON(http.StatusAccepted, gin.H{
		"session_id": session.ID,
		"ingested":   len(req.Records),
	})
}

func (app *application) handleListRecords(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}

	records, err := app.repo.GetSessionRecords(session.ID)
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to load telemetry", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"records":    records,
	})
}

// --- scoring ---

func (app *application) handleScoreSession(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}

	records, err := app.repo.GetSessionRecords(session.ID)
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to load telemetry", err))
		return
	}

	// A missing role is not fatal; scoring falls back to default weights.
	jobRole, err := app.repo.GetJobRole(session.JobRoleID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		c.Error(apperrors.NewStorageError("Failed to load job role", err))
		return
	}

	start := time.Now()
	report := scoring.FinalScores(records, jobRole.Weights())
	app.metrics.IncrementScoringRuns()
	app.logger.ScoringLogger(session.ID, session.JobRoleID,
		report.OverallConfidence, report.OverallStress,
		report.TotalRecords, time.Since(start))

	saved, err := app.repo.SaveReport(session.ID, session.UserID, session.JobRoleID, report)
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to persist report", err))
		return
	}
	app.metrics.IncrementReportsPersisted()

	if err := app.repo.SetSessionStatus(session.ID, "scored"); err != nil {
		c.Error(apperrors.NewStorageError("Failed to update session status", err))
		return
	}

	app.appCache.InvalidatePrefix("/api/analytics")
	app.bus.Publish(relay.Event{
		Type:      relay.EventReportCreated,
		SessionID: session.ID,
		JobRoleID: session.JobRoleID,
		Payload: gin.H{
			"report_id":          saved.ID,
			"overall_confidence": report.OverallConfidence,
			"overall_stress":     report.OverallStress,
			"confidence_level":   report.ConfidenceLevel,
			"stress_level":       report.StressLevel,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"report_id": saved.ID,
		"report":    report,
	})
}

func (app *application) handleListReports(c *gin.Context) {
	session, ok := app.ownedSession(c)
	if !ok {
		return
	}

	reports, err := app.repo.GetSessionReports(session.ID)
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to load reports", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"reports":    reports,
	})
}

// --- analytics ---

func (app *application) handleRoleTrends(c *gin.Context) {
	roleID := c.Param("roleID")
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.Error(apperrors.NewValidationError("days must be an integer between 1 and 365"))
		return
	}

	trends, err := app.store.RoleTrends(roleID, days)
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to aggregate trends", err))
		return
	}

	// No persisted reports yet; serve the deterministic sample series so the
	// dashboard has something to chart.
	if len(trends.Points) == 0 {
		trends, err = app.sample.RoleTrends(roleID, days)
		if err != nil {
			c.Error(apperrors.NewInternalError("Failed to build sample trends", err))
			return
		}
	}

	c.JSON(http.StatusOK, trends)
}
