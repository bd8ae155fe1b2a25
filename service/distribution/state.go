package distribution

import (
	"context"
	"time"

	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// Ledger is the asset ledger holding balances. Its operations are atomic.
type Ledger interface {
	MintTo(ctx context.Context, asset, recipient model.Identity, amount uint64) error
	Burn(ctx context.Context, asset, owner model.Identity, amount uint64) error
	BalanceOf(ctx context.Context, asset, owner model.Identity) (uint64, error)
}

// Restorer is implemented by ledgers that are rebuilt from persisted balances
type Restorer interface {
	Restore(balances []*model.Balance) error
}

// EventSink receives audit events after an operation committed
type EventSink interface {
	Emit(ctx context.Context, events ...model.Event)
}

// Clock is read once per operation
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// Snapshot is the persisted engine state
type Snapshot struct {
	Config         *model.DistributionConfig
	Blacklist      *model.Blacklist
	UserClaims     []*model.UserClaim
	PendingActions []*model.PendingAdminAction
	Balances       []*model.Balance
}

// Changeset is everything a single operation writes
type Changeset struct {
	Config           *model.DistributionConfig
	Blacklist        *model.Blacklist
	BlacklistAdded   []model.Identity
	BlacklistRemoved []model.Identity
	UserClaims       []*model.UserClaim
	PendingActions   []*model.PendingAdminAction
	DeletedActions   []model.Identity
	// Balances are the holdings after the ledger effect of the operation
	Balances []*model.Balance
}

// Store persists changesets. Apply must write the changeset and run the effect
// atomically: if either fails nothing is written.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Apply(ctx context.Context, changes *Changeset, effect func(ctx context.Context) error) error
}

// MemoryStore keeps no state of its own; the engine state is the only copy
type MemoryStore struct {
	seed *Snapshot
}

// NewMemoryStore creates a store that loads the given snapshot, if any
func NewMemoryStore(seed *Snapshot) *MemoryStore {
	return &MemoryStore{seed: seed}
}

// Load implements Store
func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	if s.seed == nil {
		return &Snapshot{}, nil
	}
	return s.seed, nil
}

// Apply implements Store
func (s *MemoryStore) Apply(ctx context.Context, changes *Changeset, effect func(ctx context.Context) error) error {
	if effect == nil {
		return nil
	}
	return effect(ctx)
}

// NopSink drops every event
type NopSink struct{}

// Emit implements EventSink
func (NopSink) Emit(ctx context.Context, events ...model.Event) {}

// State is the owned, in-memory copy of everything the engine guards
type State struct {
	config    *model.DistributionConfig
	blacklist *model.Blacklist
	users     map[model.Identity]*model.UserClaim
	pending   map[model.Identity]*model.PendingAdminAction
}

func newState(snapshot *Snapshot) *State {
	st := &State{
		users:   map[model.Identity]*model.UserClaim{},
		pending: map[model.Identity]*model.PendingAdminAction{},
	}
	if snapshot == nil {
		return st
	}
	if snapshot.Config != nil {
		c := *snapshot.Config
		st.config = &c
	}
	if snapshot.Blacklist != nil {
		st.blacklist = snapshot.Blacklist.Clone()
	}
	for _, u := range snapshot.UserClaims {
		st.users[u.User] = u.Clone()
	}
	for _, p := range snapshot.PendingActions {
		st.pending[p.Admin] = p.Clone()
	}
	return st
}

// merge swaps in the values of a committed changeset
func (st *State) merge(changes *Changeset) {
	if changes.Config != nil {
		c := *changes.Config
		st.config = &c
	}
	if changes.Blacklist != nil {
		st.blacklist = changes.Blacklist.Clone()
	}
	for _, u := range changes.UserClaims {
		st.users[u.User] = u.Clone()
	}
	for _, p := range changes.PendingActions {
		st.pending[p.Admin] = p.Clone()
	}
	for _, admin := range changes.DeletedActions {
		delete(st.pending, admin)
	}
}

// configCopy returns a mutable copy of the configuration or nil
func (st *State) configCopy() *model.DistributionConfig {
	if st.config == nil {
		return nil
	}
	c := *st.config
	return &c
}

// userClaimCopy returns a mutable copy of the record or nil if the user never claimed
func (st *State) userClaimCopy(user model.Identity) *model.UserClaim {
	if rec, ok := st.users[user]; ok {
		return rec.Clone()
	}
	return nil
}

// isBlacklisted consults the mirrored flag when the record exists and the
// registry itself otherwise
func (st *State) isBlacklisted(user model.Identity) bool {
	if rec, ok := st.users[user]; ok {
		return rec.IsBlacklisted
	}
	return st.blacklist != nil && st.blacklist.Contains(user)
}
