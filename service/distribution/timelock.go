package distribution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// AdminAction is a privileged change guarded by the timelock. The variants are
// ChangeAdmin, ChangeAsset and EmergencyWithdraw.
type AdminAction interface {
	Type() model.AdminActionType
	Value() model.Identity
	isAdminAction()
}

// ChangeAdmin replaces the administrator of the configuration
type ChangeAdmin struct {
	NewAdmin model.Identity
}

func (a ChangeAdmin) Type() model.AdminActionType { return model.AdminActionType_ChangeAdmin }
func (a ChangeAdmin) Value() model.Identity        { return a.NewAdmin }
func (ChangeAdmin) isAdminAction()                 {}

// ChangeAsset replaces the accepted asset
type ChangeAsset struct {
	NewAsset model.Identity
}

func (a ChangeAsset) Type() model.AdminActionType { return model.AdminActionType_ChangeAsset }
func (a ChangeAsset) Value() model.Identity        { return a.NewAsset }
func (ChangeAsset) isAdminAction()                 {}

// EmergencyWithdraw is recorded and announced when executed; it has no effect on the state
type EmergencyWithdraw struct{}

func (EmergencyWithdraw) Type() model.AdminActionType { return model.AdminActionType_EmergencyWithdraw }
func (EmergencyWithdraw) Value() model.Identity        { return model.ZeroIdentity }
func (EmergencyWithdraw) isAdminAction()               {}

// NewAdminAction builds the variant of the given kind
func NewAdminAction(kind model.AdminActionType, value model.Identity) (AdminAction, error) {
	switch kind {
	case model.AdminActionType_ChangeAdmin:
		return ChangeAdmin{NewAdmin: value}, nil
	case model.AdminActionType_ChangeAsset:
		return ChangeAsset{NewAsset: value}, nil
	case model.AdminActionType_EmergencyWithdraw:
		return EmergencyWithdraw{}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown admin action %q", kind)
	}
}

// ActionFromRecord decodes a persisted pending action
func ActionFromRecord(p *model.PendingAdminAction) (AdminAction, error) {
	return NewAdminAction(p.ActionType, p.NewValue)
}

// RequestAdminAction stores the action as the administrator's pending request.
// An earlier request, executed or not, is overwritten.
func (e *Engine) RequestAdminAction(ctx context.Context, admin model.Identity, action AdminAction) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if _, err := e.requireAdmin(admin); err != nil {
		return err
	}
	if action == nil {
		return errors.Wrap(ErrInvalidInput, "admin action is required")
	}

	now := e.now()
	pending := model.NewPendingAdminAction(admin, action.Type(), action.Value(), now)
	if err := e.apply(ctx, &Changeset{PendingActions: []*model.PendingAdminAction{pending}}, nil); err != nil {
		return err
	}

	e.emit(ctx, &model.AdminActionEvent{
		Admin:     admin,
		Action:    model.AdminEvent_RequestPrefix + action.Type().Label(),
		Details:   fmt.Sprintf("Requested change to %s", action.Value()),
		Timestamp: now,
	})

	log.Info().Str("section", "distribution").Str("action", "request_admin_action").
		Str("admin", admin.String()).
		Str("type", action.Type().String()).
		Str("value", action.Value().String()).
		Int64("executable_at", now+AdminActionDelay).
		Msg("Admin action requested")
	return nil
}

// ExecuteAdminAction applies the administrator's pending request once the
// delay has elapsed. A request can be executed only once.
func (e *Engine) ExecuteAdminAction(ctx context.Context, admin model.Identity) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	cfg, err := e.requireAdmin(admin)
	if err != nil {
		return err
	}
	stored, ok := e.state.pending[admin]
	if !ok {
		return errors.Wrap(ErrInvalidInput, "no pending admin action")
	}
	if stored.Executed {
		return errors.Wrap(ErrInvalidInput, "admin action already executed")
	}
	now := e.now()
	if now-stored.RequestedAt < AdminActionDelay {
		return errors.Wrapf(ErrInvalidInput, "admin action executable at %d", stored.RequestedAt+AdminActionDelay)
	}
	action, err := ActionFromRecord(stored)
	if err != nil {
		return err
	}

	pending := stored.Clone()
	pending.Executed = true
	changes := &Changeset{PendingActions: []*model.PendingAdminAction{pending}}

	var event *model.AdminActionEvent
	switch a := action.(type) {
	case ChangeAdmin:
		cfg.Admin = a.NewAdmin
		changes.Config = cfg
		event = &model.AdminActionEvent{
			Action:  model.AdminEvent_ChangeAdmin,
			Details: fmt.Sprintf("Admin changed to %s", a.NewAdmin),
		}
	case ChangeAsset:
		cfg.AcceptedAsset = a.NewAsset
		changes.Config = cfg
		event = &model.AdminActionEvent{
			Action:  model.AdminEvent_ChangeAsset,
			Details: fmt.Sprintf("Asset changed to %s", a.NewAsset),
		}
	case EmergencyWithdraw:
		event = &model.AdminActionEvent{
			Action:  model.AdminEvent_EmergencyWithdraw,
			Details: "Emergency withdraw executed",
		}
	default:
		return errors.Wrapf(ErrInvalidInput, "unsupported admin action %T", action)
	}

	if err := e.apply(ctx, changes, nil); err != nil {
		return err
	}

	event.Admin = admin
	event.Timestamp = now
	e.emit(ctx, event)

	log.Warn().Str("section", "distribution").Str("action", "execute_admin_action").
		Str("admin", admin.String()).
		Str("type", action.Type().String()).
		Str("value", action.Value().String()).
		Msg("Admin action executed")
	return nil
}

// CancelAdminAction discards the administrator's pending request before it runs
func (e *Engine) CancelAdminAction(ctx context.Context, admin model.Identity) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if _, err := e.requireAdmin(admin); err != nil {
		return err
	}
	stored, ok := e.state.pending[admin]
	if !ok {
		return errors.Wrap(ErrInvalidInput, "no pending admin action")
	}
	if stored.Executed {
		return errors.Wrap(ErrInvalidInput, "admin action already executed")
	}

	if err := e.apply(ctx, &Changeset{DeletedActions: []model.Identity{admin}}, nil); err != nil {
		return err
	}

	e.emit(ctx, &model.AdminActionEvent{
		Admin:     admin,
		Action:    model.AdminEvent_CancelPrefix + stored.ActionType.Label(),
		Details:   fmt.Sprintf("Cancelled change to %s", stored.NewValue),
		Timestamp: e.now(),
	})

	log.Info().Str("section", "distribution").Str("action", "cancel_admin_action").
		Str("admin", admin.String()).
		Str("type", stored.ActionType.String()).
		Msg("Admin action cancelled")
	return nil
}
