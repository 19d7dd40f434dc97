package server

import (
	"context"
	"errors"

	"github.com/cybersim/horacero/internal/horacero"
)

// Session-lifecycle validation errors. Handlers map these to HTTP
// rejections with human-readable reasons; none of them crash the
// store.
var (
	ErrNotFound         = errors.New("session not found")
	ErrAlreadyStarted   = errors.New("session no longer accepts this operation")
	ErrNotInvited       = errors.New("email is not on the invited list")
	ErrAlreadyJoined    = errors.New("email already joined this session")
	ErrIncompleteRoster = errors.New("not every invited player has joined")
	ErrFinished         = errors.New("session already finished")
	ErrReportNotFound   = errors.New("report not found")
)

// Store is the keyed record interface for sessions and reports. Reads
// must observe prior writes from the same process. Concurrent writers
// get last-write-wins semantics, no versioning.
type Store interface {
	CreateSession(ctx context.Context, invitedEmails []string) (horacero.GameSession, error)
	GetSession(ctx context.Context, code string) (horacero.GameSession, error)
	JoinSession(ctx context.Context, code string, details horacero.PlayerDetails) (horacero.GameSession, error)
	StartSession(ctx context.Context, code string) (horacero.GameSession, error)
	ListSessions(ctx context.Context) ([]horacero.GameSession, error)

	// SaveState overwrites the live snapshot. Absent or finished
	// sessions make it a silent no-op.
	SaveState(ctx context.Context, code string, state horacero.GameState) error

	// SaveReport attaches the report and marks the session finished.
	// Idempotent: an existing report for the session is a silent skip.
	SaveReport(ctx context.Context, report horacero.Report) error

	GetReport(ctx context.Context, sessionID string) (horacero.Report, error)
	ListReports(ctx context.Context) ([]horacero.Report, error)
}

// AdminSessions tracks logged-in admin cookies.
type AdminSessions interface {
	CreateAdminSession(ctx context.Context) (string, error)
	DeleteAdminSession(ctx context.Context, id string) error
	AdminSessionExists(ctx context.Context, id string) (bool, error)
}
