package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

var (
	assetID = model.Identity{1}
	ownerID = model.Identity{2}
	otherID = model.Identity{3}
)

func TestLedger_MintTo(t *testing.T) {
	ctx := context.TODO()

	Convey("It should credit the recipient and grow the supply", t, func() {
		l := New()
		So(l.MintTo(ctx, assetID, ownerID, 10), ShouldBeNil)
		So(l.MintTo(ctx, assetID, ownerID, 5), ShouldBeNil)
		So(l.MintTo(ctx, assetID, otherID, 1), ShouldBeNil)

		balance, err := l.BalanceOf(ctx, assetID, ownerID)
		So(err, ShouldBeNil)
		So(balance, ShouldEqual, 15)
		So(l.TotalSupply(assetID), ShouldEqual, 16)
		So(len(l.Holders(assetID)), ShouldEqual, 2)
	})

	Convey("It should return err on zero amount", t, func() {
		l := New()
		So(l.MintTo(ctx, assetID, ownerID, 0), ShouldEqual, ErrInvalidAmount)
	})

	Convey("It should return err on overflow and keep the balance", t, func() {
		l := New()
		So(l.MintTo(ctx, assetID, ownerID, math.MaxUint64), ShouldBeNil)
		err := l.MintTo(ctx, assetID, otherID, 1)
		So(errors.Is(err, ErrBalanceOverflow), ShouldBeTrue)

		balance, _ := l.BalanceOf(ctx, assetID, otherID)
		So(balance, ShouldEqual, 0)
		So(l.TotalSupply(assetID), ShouldEqual, uint64(math.MaxUint64))
	})

	Convey("It should keep concurrent mints consistent", t, func() {
		l := New()
		wg := sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = l.MintTo(ctx, assetID, ownerID, 2)
			}()
		}
		wg.Wait()
		So(l.TotalSupply(assetID), ShouldEqual, 100)
	})
}

func TestLedger_Burn(t *testing.T) {
	ctx := context.TODO()

	Convey("It should debit the owner and shrink the supply", t, func() {
		l := New()
		So(l.MintTo(ctx, assetID, ownerID, 10), ShouldBeNil)
		So(l.Burn(ctx, assetID, ownerID, 4), ShouldBeNil)

		balance, _ := l.BalanceOf(ctx, assetID, ownerID)
		So(balance, ShouldEqual, 6)
		So(l.TotalSupply(assetID), ShouldEqual, 6)

		So(l.Burn(ctx, assetID, ownerID, 6), ShouldBeNil)
		So(l.Holders(assetID), ShouldBeEmpty)
	})

	Convey("It should return err on insufficient funds", t, func() {
		l := New()
		err := l.Burn(ctx, assetID, ownerID, 1)
		So(errors.Is(err, ErrInsufficientFunds), ShouldBeTrue)

		So(l.MintTo(ctx, assetID, ownerID, 1), ShouldBeNil)
		err = l.Burn(ctx, assetID, ownerID, 2)
		So(errors.Is(err, ErrInsufficientFunds), ShouldBeTrue)
		So(l.TotalSupply(assetID), ShouldEqual, 1)
	})

	Convey("Unknown assets should hold nothing", t, func() {
		l := New()
		balance, err := l.BalanceOf(ctx, otherID, ownerID)
		So(err, ShouldBeNil)
		So(balance, ShouldEqual, 0)
		So(l.TotalSupply(otherID), ShouldEqual, 0)
	})
}

func TestLedger_Restore(t *testing.T) {
	ctx := context.TODO()

	Convey("It should replace the holdings with the persisted balances", t, func() {
		l := New()
		So(l.MintTo(ctx, assetID, otherID, 99), ShouldBeNil)

		err := l.Restore([]*model.Balance{
			model.NewBalance(assetID, ownerID, 40),
			model.NewBalance(assetID, otherID, 0),
		})
		So(err, ShouldBeNil)

		balance, _ := l.BalanceOf(ctx, assetID, ownerID)
		So(balance, ShouldEqual, 40)
		balance, _ = l.BalanceOf(ctx, assetID, otherID)
		So(balance, ShouldEqual, 0)
		So(l.TotalSupply(assetID), ShouldEqual, 40)
		So(l.Holders(assetID), ShouldResemble, []BalanceView{{Owner: ownerID, Balance: 40}})
	})

	Convey("It should return err when the persisted supply overflows", t, func() {
		l := New()
		err := l.Restore([]*model.Balance{
			model.NewBalance(assetID, ownerID, math.MaxUint64),
			model.NewBalance(assetID, otherID, 1),
		})
		So(errors.Is(err, ErrBalanceOverflow), ShouldBeTrue)
	})
}
