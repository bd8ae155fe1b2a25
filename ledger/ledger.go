package ledger

import (
	"context"
	"math/bits"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

var ErrInsufficientFunds = errors.New("INSUFFICIENT_FUNDS")
var ErrInvalidAmount = errors.New("INVALID_AMOUNT")
var ErrBalanceOverflow = errors.New("BALANCE_OVERFLOW")

// BalanceView is the holding of one owner
type BalanceView struct {
	Owner   model.Identity `json:"owner"`
	Balance uint64         `json:"balance"`
}

type asset struct {
	balancesLock *sync.RWMutex
	balances     map[model.Identity]uint64
	supply       uint64
}

// Ledger keeps the balances of every asset in memory. Each operation is atomic.
type Ledger struct {
	assetsLock *sync.RWMutex
	assets     map[model.Identity]*asset
}

func New() *Ledger {
	return &Ledger{
		assetsLock: &sync.RWMutex{},
		assets:     map[model.Identity]*asset{},
	}
}

// getAsset returns the asset, creating it on first use if create is set
func (l *Ledger) getAsset(id model.Identity, create bool) *asset {
	l.assetsLock.RLock()
	a, ok := l.assets[id]
	l.assetsLock.RUnlock()
	if ok || !create {
		return a
	}

	l.assetsLock.Lock()
	defer l.assetsLock.Unlock()
	if a, ok = l.assets[id]; ok {
		return a
	}
	a = &asset{
		balancesLock: &sync.RWMutex{},
		balances:     map[model.Identity]uint64{},
	}
	l.assets[id] = a
	return a
}

// MintTo credits new units to the recipient and grows the asset supply
func (l *Ledger) MintTo(ctx context.Context, assetID, recipient model.Identity, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	a := l.getAsset(assetID, true)
	a.balancesLock.Lock()
	defer a.balancesLock.Unlock()

	supply, carry := bits.Add64(a.supply, amount, 0)
	if carry != 0 {
		return errors.Wrapf(ErrBalanceOverflow, "supply of %s", assetID)
	}
	balance, carry := bits.Add64(a.balances[recipient], amount, 0)
	if carry != 0 {
		return errors.Wrapf(ErrBalanceOverflow, "balance of %s", recipient)
	}
	a.supply = supply
	a.balances[recipient] = balance

	log.Debug().Str("section", "ledger").Str("action", "mint").
		Str("asset", assetID.String()).
		Str("recipient", recipient.String()).
		Uint64("amount", amount).
		Msg("Units minted")
	return nil
}

// Burn destroys units held by the owner and shrinks the asset supply
func (l *Ledger) Burn(ctx context.Context, assetID, owner model.Identity, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	a := l.getAsset(assetID, false)
	if a == nil {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds no %s", owner, assetID)
	}
	a.balancesLock.Lock()
	defer a.balancesLock.Unlock()

	balance := a.balances[owner]
	if balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d", owner, balance)
	}
	if balance == amount {
		delete(a.balances, owner)
	} else {
		a.balances[owner] = balance - amount
	}
	a.supply -= amount

	log.Debug().Str("section", "ledger").Str("action", "burn").
		Str("asset", assetID.String()).
		Str("owner", owner.String()).
		Uint64("amount", amount).
		Msg("Units burned")
	return nil
}

// Restore replaces every holding with the persisted balances. Zero balances are skipped.
func (l *Ledger) Restore(balances []*model.Balance) error {
	assets := map[model.Identity]*asset{}
	for _, b := range balances {
		if b.Amount == 0 {
			continue
		}
		a, ok := assets[b.Asset]
		if !ok {
			a = &asset{
				balancesLock: &sync.RWMutex{},
				balances:     map[model.Identity]uint64{},
			}
			assets[b.Asset] = a
		}
		supply, carry := bits.Add64(a.supply, b.Amount, 0)
		if carry != 0 {
			return errors.Wrapf(ErrBalanceOverflow, "supply of %s", b.Asset)
		}
		a.supply = supply
		a.balances[b.Owner] = b.Amount
	}

	l.assetsLock.Lock()
	l.assets = assets
	l.assetsLock.Unlock()

	log.Info().Str("section", "ledger").Str("action", "restore").
		Int("assets", len(assets)).
		Msg("Balances restored")
	return nil
}

// BalanceOf reads the holding of an owner; unknown owners hold nothing
func (l *Ledger) BalanceOf(ctx context.Context, assetID, owner model.Identity) (uint64, error) {
	a := l.getAsset(assetID, false)
	if a == nil {
		return 0, nil
	}
	a.balancesLock.RLock()
	defer a.balancesLock.RUnlock()
	return a.balances[owner], nil
}

// TotalSupply is the amount of units of an asset in circulation
func (l *Ledger) TotalSupply(assetID model.Identity) uint64 {
	a := l.getAsset(assetID, false)
	if a == nil {
		return 0
	}
	a.balancesLock.RLock()
	defer a.balancesLock.RUnlock()
	return a.supply
}

// Holders lists the non-zero balances of an asset
func (l *Ledger) Holders(assetID model.Identity) []BalanceView {
	a := l.getAsset(assetID, false)
	if a == nil {
		return []BalanceView{}
	}
	a.balancesLock.RLock()
	defer a.balancesLock.RUnlock()
	holders := make([]BalanceView, 0, len(a.balances))
	for owner, balance := range a.balances {
		holders = append(holders, BalanceView{Owner: owner, Balance: balance})
	}
	return holders
}
