package distribution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// InitializeBlacklist creates the empty registry. Only the configured
// administrator may call it and only once.
func (e *Engine) InitializeBlacklist(ctx context.Context, admin model.Identity) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if _, err := e.requireAdmin(admin); err != nil {
		return err
	}
	if e.state.blacklist != nil {
		return errors.Wrap(ErrInvalidInput, "blacklist already initialized")
	}

	bl := model.NewBlacklist(admin)
	if err := e.apply(ctx, &Changeset{Blacklist: bl}, nil); err != nil {
		return err
	}

	log.Info().Str("section", "distribution").Str("action", "initialize_blacklist").
		Str("admin", admin.String()).
		Msg("Blacklist initialized")
	return nil
}

// AddToBlacklist bans a user from claiming. Adding a present user is a no-op.
func (e *Engine) AddToBlacklist(ctx context.Context, admin, user model.Identity) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	bl, err := e.requireBlacklist(admin)
	if err != nil {
		return err
	}
	if bl.Contains(user) {
		return nil
	}
	if bl.IsFull() {
		return errors.Wrapf(ErrInvalidInput, "blacklist holds at most %d users", model.BlacklistCapacity)
	}
	bl.Add(user)

	changes := &Changeset{Blacklist: bl, BlacklistAdded: []model.Identity{user}}
	if rec := e.state.userClaimCopy(user); rec != nil {
		rec.IsBlacklisted = true
		changes.UserClaims = []*model.UserClaim{rec}
	}
	if err := e.apply(ctx, changes, nil); err != nil {
		return err
	}

	now := e.now()
	e.emit(ctx,
		&model.SecurityEvent{
			Kind:      model.SecurityEvent_UserBlacklisted,
			User:      user,
			Reason:    "Added to blacklist by admin",
			Timestamp: now,
		},
		&model.AdminActionEvent{
			Admin:     admin,
			Action:    model.AdminEvent_BlacklistAdd,
			Details:   fmt.Sprintf("User %s added to blacklist", user),
			Timestamp: now,
		},
	)

	log.Info().Str("section", "distribution").Str("action", "blacklist_add").
		Str("admin", admin.String()).
		Str("user", user.String()).
		Int("size", len(bl.Users)).
		Msg("User blacklisted")
	return nil
}

// RemoveFromBlacklist lifts a ban. Removing an absent user is a no-op.
func (e *Engine) RemoveFromBlacklist(ctx context.Context, admin, user model.Identity) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	bl, err := e.requireBlacklist(admin)
	if err != nil {
		return err
	}
	if !bl.Remove(user) {
		return nil
	}

	changes := &Changeset{Blacklist: bl, BlacklistRemoved: []model.Identity{user}}
	if rec := e.state.userClaimCopy(user); rec != nil {
		rec.IsBlacklisted = false
		changes.UserClaims = []*model.UserClaim{rec}
	}
	if err := e.apply(ctx, changes, nil); err != nil {
		return err
	}

	e.emit(ctx, &model.SecurityEvent{
		Kind:      model.SecurityEvent_UserUnblacklisted,
		User:      user,
		Reason:    "Removed from blacklist by admin",
		Timestamp: e.now(),
	})

	log.Info().Str("section", "distribution").Str("action", "blacklist_remove").
		Str("admin", admin.String()).
		Str("user", user.String()).
		Int("size", len(bl.Users)).
		Msg("User removed from blacklist")
	return nil
}

// requireBlacklist checks the administrator and returns a mutable copy of the registry
func (e *Engine) requireBlacklist(admin model.Identity) (*model.Blacklist, error) {
	if _, err := e.requireAdmin(admin); err != nil {
		return nil, err
	}
	if e.state.blacklist == nil {
		return nil, errors.Wrap(ErrInvalidInput, "blacklist not initialized")
	}
	return e.state.blacklist.Clone(), nil
}
