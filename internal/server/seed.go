package server

import (
	"context"
	"log/slog"
)

// SeedDemo creates a demo session with two invited players if the
// store is empty. Idempotent: does nothing once any session exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	existing, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	sess, err := store.CreateSession(ctx, []string{
		"ana@demo.horacero.app",
		"luis@demo.horacero.app",
	})
	if err != nil {
		return err
	}

	logger.Info("demo session created", "code", sess.Code)
	return nil
}
