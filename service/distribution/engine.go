package distribution

import (
	"context"
	"math/bits"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/ledger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

const (
	// MaxSignatureAge bounds the distance between a signed timestamp and the host clock
	MaxSignatureAge int64 = 300
	// DailyWindow is the length of the daily quota window
	DailyWindow int64 = 24 * 60 * 60
	// HourlyWindow is the length of the hourly quota window
	HourlyWindow int64 = 60 * 60
	// AdminActionDelay is the timelock between request and execution of an admin action
	AdminActionDelay int64 = 24 * 60 * 60
)

// Options configure the collaborators of an engine. Zero values fall back to
// an in-memory store, no events, the host verifier and the system clock.
type Options struct {
	Store            Store
	Events           EventSink
	Verifier         SignatureVerifier
	Clock            Clock
	BackendAuthority model.Identity
}

// Engine authorizes claims, burns and mints and guards the privileged
// configuration. Every operation runs under one lock and either commits
// entirely or leaves the state untouched.
type Engine struct {
	lock             *sync.Mutex
	state            *State
	ledger           Ledger
	store            Store
	events           EventSink
	verifier         SignatureVerifier
	clock            Clock
	backendAuthority model.Identity
}

// New creates an engine with empty state; call Load to restore persisted state
func New(l Ledger, opts Options) *Engine {
	e := &Engine{
		lock:             &sync.Mutex{},
		state:            newState(nil),
		ledger:           l,
		store:            opts.Store,
		events:           opts.Events,
		verifier:         opts.Verifier,
		clock:            opts.Clock,
		backendAuthority: opts.BackendAuthority,
	}
	if e.store == nil {
		e.store = NewMemoryStore(nil)
	}
	if e.events == nil {
		e.events = NopSink{}
	}
	if e.verifier == nil {
		e.verifier = HostVerifier{}
	}
	if e.clock == nil {
		e.clock = SystemClock
	}
	return e
}

// Load replaces the in-memory state with the persisted snapshot
func (e *Engine) Load(ctx context.Context) error {
	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to load distribution state")
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	if r, ok := e.ledger.(Restorer); ok && len(snapshot.Balances) > 0 {
		if err := r.Restore(snapshot.Balances); err != nil {
			return errors.Wrap(classifyLedgerError(err), "unable to restore balances")
		}
	}
	e.state = newState(snapshot)

	log.Info().Str("section", "distribution").
		Int("user_claims", len(snapshot.UserClaims)).
		Int("pending_actions", len(snapshot.PendingActions)).
		Int("balances", len(snapshot.Balances)).
		Bool("configured", snapshot.Config != nil).
		Msg("Distribution state loaded")
	return nil
}

// BackendAuthority is the signer whose proofs authorize claims and burns
func (e *Engine) BackendAuthority() model.Identity {
	return e.backendAuthority
}

// InitializeConfig creates the singleton configuration. It can only run once.
func (e *Engine) InitializeConfig(ctx context.Context, admin, asset model.Identity, maxClaimPerUser, totalSupplyLimit uint64) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.state.config != nil {
		return errors.Wrap(ErrInvalidInput, "configuration already initialized")
	}
	if admin.IsZero() {
		return errors.Wrap(ErrInvalidInput, "administrator must be set")
	}
	if asset.IsZero() {
		return errors.Wrap(ErrInvalidInput, "accepted asset must be set")
	}
	if maxClaimPerUser == 0 {
		return errors.Wrap(ErrInvalidInput, "max claim per user must be positive")
	}
	if totalSupplyLimit == 0 {
		return errors.Wrap(ErrInvalidInput, "total supply limit must be positive")
	}

	cfg := model.NewDistributionConfig(admin, asset, maxClaimPerUser, totalSupplyLimit)
	if err := e.apply(ctx, &Changeset{Config: cfg}, nil); err != nil {
		return err
	}

	log.Info().Str("section", "distribution").Str("action", "initialize_config").
		Str("admin", admin.String()).
		Str("asset", asset.String()).
		Uint64("max_claim_per_user", maxClaimPerUser).
		Uint64("total_supply_limit", totalSupplyLimit).
		Msg("Configuration initialized")
	return nil
}

// Config returns a copy of the configuration
func (e *Engine) Config() (*model.DistributionConfig, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	cfg := e.state.configCopy()
	return cfg, cfg != nil
}

// UserClaim returns a copy of the claim record of a user
func (e *Engine) UserClaim(user model.Identity) (*model.UserClaim, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	rec := e.state.userClaimCopy(user)
	return rec, rec != nil
}

// Blacklist returns a copy of the registry
func (e *Engine) Blacklist() (*model.Blacklist, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.state.blacklist == nil {
		return nil, false
	}
	return e.state.blacklist.Clone(), true
}

// IsBlacklisted reports whether a claim by the user would be refused as blacklisted
func (e *Engine) IsBlacklisted(user model.Identity) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.state.isBlacklisted(user)
}

// PendingAction returns a copy of the timelocked request of an administrator
func (e *Engine) PendingAction(admin model.Identity) (*model.PendingAdminAction, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	p, ok := e.state.pending[admin]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// BlacklistMirrorDrift lists claim records whose mirrored flag disagrees with the registry
func (e *Engine) BlacklistMirrorDrift() []model.Identity {
	e.lock.Lock()
	defer e.lock.Unlock()
	drift := []model.Identity{}
	for user, rec := range e.state.users {
		listed := e.state.blacklist != nil && e.state.blacklist.Contains(user)
		if rec.IsBlacklisted != listed {
			drift = append(drift, user)
		}
	}
	return drift
}

// apply persists the changeset together with the effect and swaps it into memory
func (e *Engine) apply(ctx context.Context, changes *Changeset, effect func(ctx context.Context) error) error {
	if err := e.store.Apply(ctx, changes, effect); err != nil {
		return err
	}
	e.state.merge(changes)
	return nil
}

// applyWithLedger persists the changeset with a ledger operation as its effect.
// If the store fails after the operation went through, undo reverts it.
func (e *Engine) applyWithLedger(ctx context.Context, changes *Changeset, do, undo func(ctx context.Context) error) error {
	done := false
	err := e.apply(ctx, changes, func(ctx context.Context) error {
		if err := do(ctx); err != nil {
			return classifyLedgerError(err)
		}
		done = true
		return nil
	})
	if err != nil && done {
		if uerr := undo(ctx); uerr != nil {
			log.Error().Err(uerr).Str("section", "distribution").
				Msg("Unable to revert ledger operation after a failed commit")
		}
	}
	return err
}

// classifyLedgerError maps ledger failures to policy errors
func classifyLedgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrBalanceOverflow):
		return errors.Wrap(ErrMathOverflow, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return errors.Wrap(ErrInsufficientFunds, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount):
		return errors.Wrap(ErrInvalidPaymentAmount, err.Error())
	}
	return err
}

func (e *Engine) emit(ctx context.Context, events ...model.Event) {
	e.events.Emit(ctx, events...)
}

func (e *Engine) now() int64 {
	return e.clock.Now().Unix()
}

// requireConfig returns a mutable copy of the configuration
func (e *Engine) requireConfig() (*model.DistributionConfig, error) {
	cfg := e.state.configCopy()
	if cfg == nil {
		return nil, errors.Wrap(ErrPaymentTokenNotConfigured, "configuration not initialized")
	}
	return cfg, nil
}

// requireAdmin returns a mutable copy of the configuration if caller is its administrator
func (e *Engine) requireAdmin(caller model.Identity) (*model.DistributionConfig, error) {
	cfg, err := e.requireConfig()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Admin {
		return nil, errors.Wrapf(ErrUnauthorized, "%s is not the administrator", caller)
	}
	return cfg, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// isFresh reports whether |now - timestamp| <= MaxSignatureAge without overflowing
func isFresh(now, timestamp int64) bool {
	if timestamp > now {
		return timestamp-now <= MaxSignatureAge
	}
	return now-MaxSignatureAge <= timestamp
}
