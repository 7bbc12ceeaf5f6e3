package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/keji-green/lit-engine/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			uid TEXT NOT NULL,
			status TEXT NOT NULL,
			create_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			start_time DATETIME,
			end_time DATETIME,
			extra_data TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_uid ON sessions(uid, create_time)`,
		`CREATE TABLE IF NOT EXISTS interview_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT,
			answer_time DATETIME,
			create_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_session ON interview_records(session_id, id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	var extra sql.NullString
	if session.Extra != nil {
		extra = sql.NullString{String: string(session.Extra), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, uid, status, create_time, extra_data) VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.UID, session.Status, session.CreatedAt, extra)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var startTime, endTime sql.NullTime
	var extra sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, uid, status, create_time, start_time, end_time, extra_data FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UID, &session.Status, &session.CreatedAt, &startTime, &endTime, &extra)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if startTime.Valid {
		session.StartedAt = &startTime.Time
	}
	if endTime.Valid {
		session.EndedAt = &endTime.Time
	}
	if extra.Valid {
		session.Extra = []byte(extra.String)
	}
	return &session, nil
}

// MarkSessionStarted transitions a NOT_STARTED session to ONGOING and
// stamps the start time. Returns false when the session was not in
// NOT_STARTED anymore (another request won the race, or it ended).
func (s *SQLiteStore) MarkSessionStarted(ctx context.Context, sessionID string, startedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, start_time = ? WHERE session_id = ? AND status = ?`,
		domain.SessionStatusOngoing, startedAt, sessionID, domain.SessionStatusNotStarted)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSessionEnded transitions a non-terminal session to the given ended
// status and stamps the end time. Returns false when the session was
// already in a terminal status.
func (s *SQLiteStore) MarkSessionEnded(ctx context.Context, sessionID string, status domain.SessionStatus, endedAt time.Time) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("status %s is not terminal", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, end_time = ? WHERE session_id = ? AND status IN (?, ?)`,
		status, endedAt, sessionID, domain.SessionStatusNotStarted, domain.SessionStatusOngoing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateQuestionRecord inserts a question record and assigns RecordID.
func (s *SQLiteStore) CreateQuestionRecord(ctx context.Context, record *domain.QuestionRecord) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_records (session_id, question, create_time) VALUES (?, ?, ?)`,
		record.SessionID, record.Question, record.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	record.RecordID = id
	return nil
}

// GetQuestionRecord retrieves a question record by ID.
func (s *SQLiteStore) GetQuestionRecord(ctx context.Context, recordID int64) (*domain.QuestionRecord, error) {
	var record domain.QuestionRecord
	var answer sql.NullString
	var answerTime sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, question, answer, answer_time, create_time FROM interview_records WHERE id = ?`,
		recordID).Scan(&record.RecordID, &record.SessionID, &record.Question, &answer, &answerTime, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if answer.Valid {
		record.Answer = &answer.String
	}
	if answerTime.Valid {
		record.AnsweredAt = &answerTime.Time
	}
	return &record, nil
}

// UpdateQuestionAnswer sets the answer and answer time on a record in a
// single write, so a record never holds a partial answer.
func (s *SQLiteStore) UpdateQuestionAnswer(ctx context.Context, recordID int64, answer string, answeredAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interview_records SET answer = ?, answer_time = ? WHERE id = ?`,
		answer, answeredAt, recordID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("record %d not found", recordID)
	}
	return nil
}

// ListQuestionRecords retrieves records for a session, most recent first.
func (s *SQLiteStore) ListQuestionRecords(ctx context.Context, sessionID string, limit int) ([]domain.QuestionRecord, error) {
	query := `SELECT id, session_id, question, answer, answer_time, create_time FROM interview_records WHERE session_id = ? ORDER BY id DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.QuestionRecord
	for rows.Next() {
		var record domain.QuestionRecord
		var answer sql.NullString
		var answerTime sql.NullTime
		if err := rows.Scan(&record.RecordID, &record.SessionID, &record.Question, &answer, &answerTime, &record.CreatedAt); err != nil {
			return nil, err
		}
		if answer.Valid {
			record.Answer = &answer.String
		}
		if answerTime.Valid {
			record.AnsweredAt = &answerTime.Time
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListSessions returns one page of a user's sessions, newest first,
// along with the total row count for the filter.
func (s *SQLiteStore) ListSessions(ctx context.Context, uid string, pageNum, pageSize int, status *domain.SessionStatus) ([]domain.SessionListItem, int64, error) {
	where := `WHERE uid = ?`
	args := []interface{}{uid}
	if status != nil {
		where += ` AND status = ?`
		args = append(args, *status)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT session_id, status, create_time, start_time, end_time,
		(SELECT COUNT(*) FROM interview_records r WHERE r.session_id = sessions.session_id) AS question_count
		FROM sessions ` + where + ` ORDER BY create_time DESC, session_id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (pageNum-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.SessionListItem
	for rows.Next() {
		var item domain.SessionListItem
		var startTime, endTime sql.NullTime
		if err := rows.Scan(&item.SessionID, &item.Status, &item.CreatedAt, &startTime, &endTime, &item.QuestionCount); err != nil {
			return nil, 0, err
		}
		if startTime.Valid {
			item.StartedAt = &startTime.Time
		}
		if endTime.Valid {
			item.EndedAt = &endTime.Time
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}
