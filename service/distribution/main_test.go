package distribution

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

var (
	backendKey  = ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	backendID   = mustIdentity(backendKey.Public().(ed25519.PublicKey))
	adminID     = testIdentity(1)
	assetID     = testIdentity(2)
	userID      = testIdentity(3)
	otherUserID = testIdentity(4)
)

func mustIdentity(b []byte) model.Identity {
	id, err := model.IdentityFromBytes(b)
	if err != nil {
		panic(err)
	}
	return id
}

func testIdentity(seed byte) model.Identity {
	var id model.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

type testClock struct {
	now int64
}

func (c *testClock) Now() time.Time {
	return time.Unix(c.now, 0)
}

// testLedger is a ledger whose next operation can be made to fail
type testLedger struct {
	lock     sync.Mutex
	balances map[string]uint64
	fail     error
}

func newTestLedger() *testLedger {
	return &testLedger{balances: map[string]uint64{}}
}

func balanceKey(asset, owner model.Identity) string {
	return fmt.Sprintf("%s/%s", asset, owner)
}

func (l *testLedger) MintTo(ctx context.Context, asset, recipient model.Identity, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.fail != nil {
		return l.fail
	}
	l.balances[balanceKey(asset, recipient)] += amount
	return nil
}

func (l *testLedger) Burn(ctx context.Context, asset, owner model.Identity, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.fail != nil {
		return l.fail
	}
	l.balances[balanceKey(asset, owner)] -= amount
	return nil
}

func (l *testLedger) BalanceOf(ctx context.Context, asset, owner model.Identity) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.balances[balanceKey(asset, owner)], nil
}

type recordingSink struct {
	events []model.Event
}

func (s *recordingSink) Emit(ctx context.Context, events ...model.Event) {
	s.events = append(s.events, events...)
}

func (s *recordingSink) last() model.Event {
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

type testEngine struct {
	*Engine
	clock  *testClock
	ledger *testLedger
	sink   *recordingSink
}

// newTestEngine creates an engine over the given snapshot with the clock at now
func newTestEngine(seed *Snapshot, now int64) *testEngine {
	te := &testEngine{
		clock:  &testClock{now: now},
		ledger: newTestLedger(),
		sink:   &recordingSink{},
	}
	te.Engine = New(te.ledger, Options{
		Store:            NewMemoryStore(seed),
		Events:           te.sink,
		Clock:            te.clock,
		BackendAuthority: backendID,
	})
	if err := te.Load(context.Background()); err != nil {
		panic(err)
	}
	return te
}

// newConfiguredEngine creates an engine with a configuration and an empty blacklist
func newConfiguredEngine(maxClaimPerUser, totalSupplyLimit, totalMinted uint64, now int64) *testEngine {
	cfg := model.NewDistributionConfig(adminID, assetID, maxClaimPerUser, totalSupplyLimit)
	cfg.TotalMinted = totalMinted
	return newTestEngine(&Snapshot{Config: cfg, Blacklist: model.NewBlacklist(adminID)}, now)
}

func claimRequest(user model.Identity, amount uint64, timestamp int64) ClaimRequest {
	message := CanonicalMessage(user, amount, timestamp, SignedAction_Claim)
	proof, err := SignProof(backendKey, message)
	if err != nil {
		panic(err)
	}
	return ClaimRequest{
		Claimant:  user,
		Asset:     assetID,
		Amount:    amount,
		Timestamp: timestamp,
		Signature: proof.Signature,
		Proof:     proof,
	}
}

func burnRequest(user model.Identity, amount uint64, timestamp int64, description string) BurnRequest {
	message := CanonicalMessage(user, amount, timestamp, SignedAction_Burn)
	proof, err := SignProof(backendKey, message)
	if err != nil {
		panic(err)
	}
	return BurnRequest{
		Payer:       user,
		Amount:      amount,
		Timestamp:   timestamp,
		Signature:   proof.Signature,
		Description: description,
		Proof:       proof,
	}
}
