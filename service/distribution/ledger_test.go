package distribution

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/paramountdax-exchange/distribution_api/ledger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// capturingStore keeps every applied changeset and fails the commit on demand
type capturingStore struct {
	seed       *Snapshot
	applied    []*Changeset
	failCommit error
}

func (s *capturingStore) Load(ctx context.Context) (*Snapshot, error) {
	if s.seed == nil {
		return &Snapshot{}, nil
	}
	return s.seed, nil
}

func (s *capturingStore) Apply(ctx context.Context, changes *Changeset, effect func(ctx context.Context) error) error {
	if effect != nil {
		if err := effect(ctx); err != nil {
			return err
		}
	}
	if s.failCommit != nil {
		return s.failCommit
	}
	s.applied = append(s.applied, changes)
	return nil
}

func (s *capturingStore) lastBalances() []*model.Balance {
	if len(s.applied) == 0 {
		return nil
	}
	return s.applied[len(s.applied)-1].Balances
}

func newLedgerEngine(store *capturingStore, l *ledger.Ledger, now int64) *Engine {
	e := New(l, Options{
		Store:            store,
		Clock:            &testClock{now: now},
		BackendAuthority: backendID,
	})
	if err := e.Load(context.Background()); err != nil {
		panic(err)
	}
	return e
}

func configuredSnapshot(totalSupplyLimit uint64) *Snapshot {
	return &Snapshot{
		Config:    model.NewDistributionConfig(adminID, assetID, 2400, totalSupplyLimit),
		Blacklist: model.NewBlacklist(adminID),
	}
}

func TestEngine_LedgerOverflow(t *testing.T) {
	ctx := context.Background()
	const now = int64(1700000000)

	Convey("Given an administrator mint of the whole uint64 range", t, func() {
		l := ledger.New()
		e := newLedgerEngine(&capturingStore{seed: configuredSnapshot(1000)}, l, now)
		So(e.Mint(ctx, MintRequest{Admin: adminID, Asset: assetID, Amount: math.MaxUint64, Recipient: userID}), ShouldBeNil)

		Convey("a mint to another holder should overflow the supply with MathOverflow", func() {
			err := e.Mint(ctx, MintRequest{Admin: adminID, Asset: assetID, Amount: 1, Recipient: otherUserID})
			So(errors.Is(err, ErrMathOverflow), ShouldBeTrue)
			code, ok := CodeOf(err)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, ErrorCode_MathOverflow)

			balance, _ := l.BalanceOf(ctx, assetID, otherUserID)
			So(balance, ShouldEqual, 0)
		})

		Convey("a mint to the same holder should overflow its balance with MathOverflow", func() {
			err := e.Mint(ctx, MintRequest{Admin: adminID, Asset: assetID, Amount: 1, Recipient: userID})
			So(errors.Is(err, ErrMathOverflow), ShouldBeTrue)
		})

		Convey("a claim should fail with MathOverflow and leave the state untouched", func() {
			_, err := e.Claim(ctx, claimRequest(otherUserID, 1, now))
			So(errors.Is(err, ErrMathOverflow), ShouldBeTrue)

			_, ok := e.UserClaim(otherUserID)
			So(ok, ShouldBeFalse)
			cfg, _ := e.Config()
			So(cfg.TotalMinted, ShouldEqual, 0)
		})
	})
}

func TestEngine_BalancePersistence(t *testing.T) {
	ctx := context.Background()
	const now = int64(1700000000)

	Convey("Given an engine over a ledger and a capturing store", t, func() {
		store := &capturingStore{seed: configuredSnapshot(1000000)}
		l := ledger.New()
		e := newLedgerEngine(store, l, now)

		Convey("a claim should persist the credited balance", func() {
			_, err := e.Claim(ctx, claimRequest(userID, 100, now))
			So(err, ShouldBeNil)
			So(store.lastBalances(), ShouldResemble, []*model.Balance{model.NewBalance(assetID, userID, 100)})

			Convey("a burn should persist the debited balance", func() {
				So(e.Burn(ctx, burnRequest(userID, 40, now, "fee payment")), ShouldBeNil)
				So(store.lastBalances(), ShouldResemble, []*model.Balance{model.NewBalance(assetID, userID, 60)})
			})
		})

		Convey("an administrator mint should persist the recipient balance", func() {
			So(e.Mint(ctx, MintRequest{Admin: adminID, Asset: assetID, Amount: 7, Recipient: otherUserID}), ShouldBeNil)
			So(store.lastBalances(), ShouldResemble, []*model.Balance{model.NewBalance(assetID, otherUserID, 7)})
		})

		Convey("a failed commit should revert the ledger", func() {
			store.failCommit = errors.New("commit failed")
			_, err := e.Claim(ctx, claimRequest(userID, 100, now))
			So(err, ShouldNotBeNil)

			balance, _ := l.BalanceOf(ctx, assetID, userID)
			So(balance, ShouldEqual, 0)
			So(l.TotalSupply(assetID), ShouldEqual, 0)
			_, ok := e.UserClaim(userID)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given persisted balances, a restarted engine should restore them", t, func() {
		seed := configuredSnapshot(1000000)
		seed.Config.TotalMinted = 100
		seed.Balances = []*model.Balance{model.NewBalance(assetID, userID, 100)}
		l := ledger.New()
		e := newLedgerEngine(&capturingStore{seed: seed}, l, now)

		balance, _ := l.BalanceOf(ctx, assetID, userID)
		So(balance, ShouldEqual, 100)
		So(e.Burn(ctx, burnRequest(userID, 40, now, "fee payment")), ShouldBeNil)
		balance, _ = l.BalanceOf(ctx, assetID, userID)
		So(balance, ShouldEqual, 60)
	})
}
