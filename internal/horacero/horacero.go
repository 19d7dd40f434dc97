// Package horacero defines the core domain types for the Hora Cero
// crisis simulation. It has zero external dependencies — everything
// here is pure Go.
package horacero

import "time"

// MaxHours is the simulated incident length. The game ends when the
// clock reaches this value.
const MaxHours = 24

type Role struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Mission string `json:"mission"`
}

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Dilemma is the scenario presented to the acting player on a turn.
// Exactly one dilemma is active at a time; it is discarded once the
// chosen response has been evaluated.
type Dilemma struct {
	Role        Role     `json:"role"`
	Description string   `json:"description"`
	Choices     []Choice `json:"choices"`
}

type EventKind string

const (
	EventStart       EventKind = "start"
	EventDecision    EventKind = "decision"
	EventConsequence EventKind = "consequence"
	EventInfo        EventKind = "info"
	EventRound       EventKind = "round"
	EventError       EventKind = "error"
)

// EventLogEntry is one record of the append-only session history.
// RoleTitle is set only for decision entries.
type EventLogEntry struct {
	Hour      int       `json:"hour"`
	Kind      EventKind `json:"type"`
	Message   string    `json:"message"`
	RoleTitle string    `json:"roleTitle,omitempty"`
}

type Player struct {
	Index     int    `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarID  string `json:"avatarId"`
	IsActing  bool   `json:"isActing"`
	Speech    string `json:"speech,omitempty"`
}

type Phase string

const (
	PhaseSplash             Phase = "splash"
	PhaseSetup              Phase = "setup"
	PhaseLoadingDilemma     Phase = "loading_dilemma"
	PhasePlaying            Phase = "playing"
	PhaseEvaluatingDecision Phase = "evaluating_decision"
	PhaseFinished           Phase = "finished"
)

// GameState is the live projection of one running session. It has a
// single writer (the reducer) and many readers.
type GameState struct {
	SessionID          string          `json:"sessionId"`
	Phase              Phase           `json:"phase"`
	CurrentHour        int             `json:"currentHour"`
	Scores             Score           `json:"scores"`
	ActiveDilemma      *Dilemma        `json:"activeDilemma"`
	EventLog           []EventLogEntry `json:"eventLog"`
	Players            []Player        `json:"players"`
	CurrentPlayerIndex int             `json:"currentPlayerIndex"`
}

type SessionStatus string

const (
	StatusWaiting    SessionStatus = "waiting"
	StatusInProgress SessionStatus = "in_progress"
	StatusFinished   SessionStatus = "finished"
)

// PlayerDetails is one joined participant record on a session.
type PlayerDetails struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// GameSession is keyed by its short access code. The invited list is
// fixed at creation; playerDetails grows as invitees join, one entry
// per email.
type GameSession struct {
	Code          string          `json:"id"`
	Status        SessionStatus   `json:"status"`
	InvitedEmails []string        `json:"invitedPlayerEmails"`
	PlayerDetails []PlayerDetails `json:"playerDetails"`
	GameState     *GameState      `json:"gameState,omitempty"`
	Report        *Report         `json:"report,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ReportPlayer is the redacted roster entry stored on a report.
type ReportPlayer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Report is the immutable post-game summary. Write-once per session.
type Report struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	Date        time.Time       `json:"date"`
	Players     []ReportPlayer  `json:"players"`
	FinalScores Score           `json:"finalScores"`
	EventLog    []EventLogEntry `json:"eventLog"`
}
