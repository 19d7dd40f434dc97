package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybersim/horacero/internal/horacero"
	"github.com/cybersim/horacero/internal/provider"
)

// Saver is the slice of the session store the runner needs: snapshot
// persistence while the game runs and the one-time report write when
// it finishes.
type Saver interface {
	SaveState(ctx context.Context, code string, state horacero.GameState) error
	SaveReport(ctx context.Context, report horacero.Report) error
}

// Config carries the runner's timing tunables.
type Config struct {
	// FetchDelay is the pause before requesting the next dilemma after
	// entering the loading phase (gives speech bubbles time on screen).
	FetchDelay time.Duration
	// SpeechTTL is how long a player's last utterance stays visible
	// before a ClearSpeech is scheduled.
	SpeechTTL time.Duration
}

// Runner drives one in-progress session: a single goroutine consumes
// actions, applies the reducer, and issues the side effects the
// post-transition phase calls for. Exactly one provider call is in
// flight at a time — a request is issued only on entry into
// loading_dilemma or evaluating_decision, and the resulting action
// moves the phase away from that state.
type Runner struct {
	code     string
	logger   *slog.Logger
	provider provider.Provider
	saver    Saver
	reducer  *Reducer
	cfg      Config

	// after is the injected clock; time.After outside tests.
	after func(time.Duration) <-chan time.Time

	actions chan Action
	done    chan struct{}
	stop    sync.Once

	mu    sync.RWMutex
	state horacero.GameState

	reportSaved bool
}

func newRunner(code string, logger *slog.Logger, p provider.Provider, saver Saver, reducer *Reducer, cfg Config, after func(time.Duration) <-chan time.Time) *Runner {
	if after == nil {
		after = time.After
	}
	return &Runner{
		code:     code,
		logger:   logger.With("code", code),
		provider: p,
		saver:    saver,
		reducer:  reducer,
		cfg:      cfg,
		after:    after,
		actions:  make(chan Action, 16),
		done:     make(chan struct{}),
		state:    horacero.GameState{SessionID: code, Phase: horacero.PhaseSetup},
	}
}

// Dispatch queues an action for the runner. Dispatching into a stopped
// runner is a safe no-op and reports false.
func (r *Runner) Dispatch(a Action) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.actions <- a:
		return true
	case <-r.done:
		return false
	}
}

// Snapshot returns the current game state. Safe for concurrent use.
func (r *Runner) Snapshot() horacero.GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Stop tears the runner down. Outstanding provider calls may still
// resolve; their dispatches land in the closed-runner no-op path.
func (r *Runner) Stop() {
	r.stop.Do(func() { close(r.done) })
}

func (r *Runner) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.Stop()
			return
		case <-r.done:
			return
		case a := <-r.actions:
			r.step(ctx, a)
		}
	}
}

// step applies one action and reacts to the transition it produced.
func (r *Runner) step(ctx context.Context, a Action) {
	r.mu.Lock()
	old := r.state
	next := r.reducer.Apply(old, a)
	r.state = next
	r.mu.Unlock()

	if next.Phase != old.Phase {
		r.logger.Debug("phase transition",
			"from", string(old.Phase),
			"to", string(next.Phase),
			"hour", next.CurrentHour,
		)
	}

	// Persist every mutation while the game is live. Once finished the
	// report carries the final state; the snapshot is not rewritten.
	if next.Phase != horacero.PhaseFinished {
		if err := r.saver.SaveState(ctx, r.code, next); err != nil {
			r.logger.Error("saving game state", "error", err)
		}
	}

	entered := func(p horacero.Phase) bool { return next.Phase == p && old.Phase != p }

	switch {
	case entered(horacero.PhaseLoadingDilemma) && len(next.Players) > 0:
		go r.fetchDilemma(ctx, next)

	case entered(horacero.PhaseEvaluatingDecision):
		go r.evaluateDecision(ctx, next)

	case entered(horacero.PhaseFinished):
		r.finish(ctx, next)
	}

	// The just-acted player keeps their speech bubble for a while,
	// then it is cleared explicitly.
	if _, ok := a.(EvaluateDecisionSuccess); ok {
		if idx := old.CurrentPlayerIndex; idx < len(next.Players) && next.Players[idx].Speech != "" {
			go func() {
				select {
				case <-r.after(r.cfg.SpeechTTL):
					r.Dispatch(ClearSpeech{PlayerIndex: idx})
				case <-r.done:
				}
			}()
		}
	}
}

// fetchDilemma waits the configured delay, asks the provider for the
// acting player's dilemma, and dispatches the outcome.
func (r *Runner) fetchDilemma(ctx context.Context, snapshot horacero.GameState) {
	select {
	case <-r.after(r.cfg.FetchDelay):
	case <-r.done:
		return
	}

	// The reducer finishes the game at MaxHours before another fetch
	// can trigger; this guard only matters if that invariant breaks.
	if snapshot.CurrentHour >= horacero.MaxHours {
		r.Dispatch(GameOver{})
		return
	}

	acting := snapshot.Players[snapshot.CurrentPlayerIndex]

	resp, err := r.provider.GenerateDilemma(ctx, acting.Role, snapshot)
	if err != nil {
		r.Dispatch(FetchDilemmaFailure{Reason: err.Error()})
		return
	}

	r.Dispatch(FetchDilemmaSuccess{Dilemma: horacero.Dilemma{
		Role:        acting.Role,
		Description: resp.Description,
		Choices:     resp.Choices,
	}})
}

// evaluateDecision recovers the just-logged choice and asks the
// provider for its consequences.
func (r *Runner) evaluateDecision(ctx context.Context, snapshot horacero.GameState) {
	if snapshot.ActiveDilemma == nil {
		return
	}

	var choice string
	for i := len(snapshot.EventLog) - 1; i >= 0; i-- {
		if snapshot.EventLog[i].Kind == horacero.EventDecision {
			choice = snapshot.EventLog[i].Message
			break
		}
	}
	if choice == "" {
		return
	}

	resp, err := r.provider.EvaluateDecision(ctx, snapshot.ActiveDilemma.Role, choice, snapshot)
	if err != nil {
		r.Dispatch(EvaluateDecisionFailure{Reason: err.Error()})
		return
	}

	r.Dispatch(EvaluateDecisionSuccess{Narrative: resp.Narrative, Delta: resp.ScoreUpdates})
}

// finish builds the report from the final state and persists it. The
// store's own idempotence guard backs this up, but the runner also
// only ever attempts it once.
func (r *Runner) finish(ctx context.Context, final horacero.GameState) {
	if r.reportSaved {
		return
	}
	r.reportSaved = true

	roster := make([]horacero.ReportPlayer, len(final.Players))
	for i, p := range final.Players {
		roster[i] = horacero.ReportPlayer{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Role:      p.Role,
		}
	}

	report := horacero.Report{
		ID:          uuid.NewString(),
		SessionID:   final.SessionID,
		Date:        time.Now().UTC(),
		Players:     roster,
		FinalScores: final.Scores,
		EventLog:    final.EventLog,
	}

	if err := r.saver.SaveReport(ctx, report); err != nil {
		r.logger.Error("saving report", "error", err)
		return
	}
	r.logger.Info("session finished, report saved",
		"hour", final.CurrentHour,
		"events", len(final.EventLog),
	)
}
