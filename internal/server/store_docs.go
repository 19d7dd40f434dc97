package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cybersim/horacero/internal/horacero"
)

// DocStore implements Store and AdminSessions using per-model tables
// with JSONB data columns. The session document is the full
// horacero.GameSession; status and created_at are lifted into columns
// for filtering and ordering.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id         TEXT PRIMARY KEY,
			session_id TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &DocStore{db: db}, nil
}

// Generic helpers shared by the per-model methods.

func (s *DocStore) get(ctx context.Context, table, id string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM %s WHERE id = ?`, table), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (s *DocStore) del(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DocStore) putSession(ctx context.Context, sess horacero.GameSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, status, created_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, data = excluded.data`,
		sess.Code, string(sess.Status), sess.CreatedAt.UTC().Format(sortableTime), string(data),
	)
	return err
}

// modifySession loads a session, applies fn, and saves it in a
// transaction. fn errors abort the write and surface to the caller.
func (s *DocStore) modifySession(ctx context.Context, code string, fn func(*horacero.GameSession) error) (horacero.GameSession, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return horacero.GameSession{}, err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM sessions WHERE id = ?`, code,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return horacero.GameSession{}, ErrNotFound
	}
	if err != nil {
		return horacero.GameSession{}, err
	}

	var sess horacero.GameSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return horacero.GameSession{}, err
	}

	if err := fn(&sess); err != nil {
		return horacero.GameSession{}, err
	}

	jsonData, err := json.Marshal(sess)
	if err != nil {
		return horacero.GameSession{}, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET status = ?, data = jsonb(?) WHERE id = ?`,
		string(sess.Status), string(jsonData), sess.Code,
	)
	if err != nil {
		return horacero.GameSession{}, err
	}

	return sess, tx.Commit()
}

// Fixed-width timestamp so the created_at column sorts lexically.
const sortableTime = "2006-01-02T15:04:05.000Z"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newAccessCode draws a 6-character code from crypto/rand.
func newAccessCode() string {
	b := make([]byte, 6)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

// Sessions

func (s *DocStore) CreateSession(ctx context.Context, invitedEmails []string) (horacero.GameSession, error) {
	sess := horacero.GameSession{
		Status:        horacero.StatusWaiting,
		InvitedEmails: invitedEmails,
		PlayerDetails: []horacero.PlayerDetails{},
		CreatedAt:     time.Now().UTC(),
	}

	// The code space is small enough that collisions are worth
	// checking for rather than trusting randomness.
	for {
		sess.Code = newAccessCode()
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM sessions WHERE id = ?`, sess.Code,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			return horacero.GameSession{}, err
		}
	}

	if err := s.putSession(ctx, sess); err != nil {
		return horacero.GameSession{}, err
	}
	return sess, nil
}

func (s *DocStore) GetSession(ctx context.Context, code string) (horacero.GameSession, error) {
	var sess horacero.GameSession
	err := s.get(ctx, "sessions", code, &sess)
	return sess, err
}

func (s *DocStore) JoinSession(ctx context.Context, code string, details horacero.PlayerDetails) (horacero.GameSession, error) {
	return s.modifySession(ctx, code, func(sess *horacero.GameSession) error {
		if sess.Status != horacero.StatusWaiting {
			return ErrAlreadyStarted
		}
		invited := false
		for _, email := range sess.InvitedEmails {
			if email == details.Email {
				invited = true
				break
			}
		}
		if !invited {
			return ErrNotInvited
		}
		for _, p := range sess.PlayerDetails {
			if p.Email == details.Email {
				return ErrAlreadyJoined
			}
		}
		sess.PlayerDetails = append(sess.PlayerDetails, details)
		return nil
	})
}

func (s *DocStore) StartSession(ctx context.Context, code string) (horacero.GameSession, error) {
	return s.modifySession(ctx, code, func(sess *horacero.GameSession) error {
		if sess.Status != horacero.StatusWaiting {
			return ErrAlreadyStarted
		}
		if len(sess.PlayerDetails) < len(sess.InvitedEmails) {
			return ErrIncompleteRoster
		}
		sess.Status = horacero.StatusInProgress
		return nil
	})
}

func (s *DocStore) ListSessions(ctx context.Context) ([]horacero.GameSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM sessions ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []horacero.GameSession
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sess horacero.GameSession
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *DocStore) SaveState(ctx context.Context, code string, state horacero.GameState) error {
	_, err := s.modifySession(ctx, code, func(sess *horacero.GameSession) error {
		if sess.Status == horacero.StatusFinished {
			return ErrFinished
		}
		sess.GameState = &state
		return nil
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrFinished) {
		return nil
	}
	return err
}

// Reports

func (s *DocStore) SaveReport(ctx context.Context, report horacero.Report) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM reports WHERE session_id = ?`, report.SessionID,
	).Scan(&one)
	if err == nil {
		return nil // already reported, keep the first
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports (id, session_id, created_at, data) VALUES (?, ?, ?, jsonb(?))`,
		report.ID, report.SessionID, report.Date.UTC().Format(sortableTime), string(data),
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status = ?,
			data = jsonb_set(data, '$.status', ?, '$.report', jsonb(?))
		 WHERE id = ?`,
		string(horacero.StatusFinished), string(horacero.StatusFinished),
		string(data), report.SessionID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *DocStore) GetReport(ctx context.Context, sessionID string) (horacero.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM reports WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return horacero.Report{}, ErrReportNotFound
	}
	if err != nil {
		return horacero.Report{}, err
	}
	var report horacero.Report
	err = json.Unmarshal([]byte(data), &report)
	return report, err
}

func (s *DocStore) ListReports(ctx context.Context) ([]horacero.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM reports ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []horacero.Report
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var report horacero.Report
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Admin sessions

type adminSessionDoc struct {
	CreatedAt string `json:"createdAt"`
}

func (s *DocStore) CreateAdminSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(adminSessionDoc{CreatedAt: time.Now().UTC().Format(sortableTime)})
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, data) VALUES (?, jsonb(?))`,
		id, string(data),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *DocStore) DeleteAdminSession(ctx context.Context, id string) error {
	err := s.del(ctx, "admin_sessions", id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *DocStore) AdminSessionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM admin_sessions WHERE id = ?`, id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
