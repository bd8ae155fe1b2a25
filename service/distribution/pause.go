package distribution

import (
	"context"

	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// EmergencyPause stops claims, burns and mints until Unpause is called
func (e *Engine) EmergencyPause(ctx context.Context, admin model.Identity, reason string) error {
	return e.setPaused(ctx, admin, reason, true)
}

// Unpause resumes operations after an emergency pause
func (e *Engine) Unpause(ctx context.Context, admin model.Identity, reason string) error {
	return e.setPaused(ctx, admin, reason, false)
}

func (e *Engine) setPaused(ctx context.Context, admin model.Identity, reason string, paused bool) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	cfg, err := e.requireAdmin(admin)
	if err != nil {
		return err
	}
	cfg.EmergencyPaused = paused
	if err := e.apply(ctx, &Changeset{Config: cfg}, nil); err != nil {
		return err
	}

	kind := model.SecurityEvent_EmergencyPause
	if !paused {
		kind = model.SecurityEvent_EmergencyUnpause
	}
	e.emit(ctx, &model.SecurityEvent{
		Kind:      kind,
		User:      admin,
		Reason:    reason,
		Timestamp: e.now(),
	})

	log.Warn().Str("section", "distribution").Str("action", "pause").
		Str("admin", admin.String()).
		Bool("paused", paused).
		Str("reason", reason).
		Msg("Emergency pause changed")
	return nil
}
