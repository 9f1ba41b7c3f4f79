package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB creates a new database connection with optimized pooling
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "insighthire.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns,
		"max_lifetime", pool.maxLifetime)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS job_roles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			hand_confidence REAL NOT NULL DEFAULT 0,
			eye_confidence REAL NOT NULL DEFAULT 0,
			voice_confidence REAL NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (created_by) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS interview_sessions (
			id TEXT PRIMARY KEY,
			candidate_name TEXT NOT NULL,
			job_role_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (job_role_id) REFERENCES job_roles(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		// NULL per-signal column means the sub-structure was absent in the
		// sample, which scoring treats as a negative signal.
		`CREATE TABLE IF NOT EXISTS telemetry_records (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			hand_confidence INTEGER,
			eye_confidence INTEGER,
			voice_confidence INTEGER,
			face_stress INTEGER,
			sampled_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES interview_sessions(id)
		)`,

		`CREATE TABLE IF NOT EXISTS scoring_reports (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			job_role_id TEXT NOT NULL,
			overall_confidence REAL NOT NULL,
			overall_stress REAL NOT NULL,
			confidence_level TEXT NOT NULL,
			stress_level TEXT NOT NULL,
			total_records INTEGER NOT NULL,
			stress_records INTEGER NOT NULL,
			components TEXT NOT NULL,
			job_role_name TEXT NOT NULL,
			generated_at DATETIME NOT NULL,
			UNIQUE(session_id, user_id, job_role_id, generated_at),
			FOREIGN KEY (session_id) REFERENCES interview_sessions(id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (job_role_id) REFERENCES job_roles(id)
		)`,

		// Indexes for performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON interview_sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_role ON interview_sessions(job_role_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_session ON telemetry_records(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_sampled ON telemetry_records(session_id, sampled_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_session ON scoring_reports(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_role_time ON scoring_reports(job_role_id, generated_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_record": `INSERT INTO telemetry_records (
			id, session_id, hand_confidence, eye_confidence, voice_confidence, face_stress, sampled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,

		"get_records_by_session": `SELECT hand_confidence, eye_confidence, voice_confidence, face_stress, sampled_at
			FROM telemetry_records WHERE session_id = ? ORDER BY sampled_at ASC, id ASC`,

		"insert_report": `INSERT INTO scoring_reports (
			id, session_id, user_id, job_role_id, overall_confidence, overall_stress,
			confidence_level, stress_level, total_records, stress_records,
			components, job_role_name, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_reports_by_session": `SELECT id, session_id, user_id, job_role_id, overall_confidence, overall_stress,
			confidence_level, stress_level, total_records, stress_records, components, job_role_name, generated_at
			FROM scoring_reports WHERE session_id = ? ORDER BY generated_at DESC`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}

	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
