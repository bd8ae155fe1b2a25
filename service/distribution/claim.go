package distribution

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// ClaimRequest asks for newly minted units, authorized by the backend authority
type ClaimRequest struct {
	Claimant  model.Identity
	Asset     model.Identity
	Amount    uint64
	Timestamp int64
	Signature []byte
	Proof     *AuthenticationProof
}

// Receipt describes a committed claim
type Receipt struct {
	Claimant      model.Identity `json:"claimant"`
	Amount        uint64         `json:"amount"`
	Nonce         uint64         `json:"nonce"`
	HourlyClaimed uint64         `json:"hourly_claimed"`
	DailyClaimed  uint64         `json:"daily_claimed"`
	TotalClaimed  uint64         `json:"total_claimed"`
	TotalMinted   uint64         `json:"total_minted"`
	Timestamp     int64          `json:"timestamp"`
}

// Claim validates a claim against pause, blacklist, supply cap, signature,
// freshness and the per-user hourly and daily quotas, then mints the amount.
func (e *Engine) Claim(ctx context.Context, req ClaimRequest) (*Receipt, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	cfg, err := e.requireConfig()
	if err != nil {
		return nil, err
	}
	if req.Asset != cfg.AcceptedAsset {
		return nil, errors.Wrapf(ErrInvalidPaymentToken, "asset %s is not accepted", req.Asset)
	}
	if cfg.EmergencyPaused {
		return nil, ErrSystemPaused
	}
	if req.Amount == 0 {
		return nil, errors.Wrap(ErrInvalidPaymentAmount, "amount must be positive")
	}
	if e.state.isBlacklisted(req.Claimant) {
		return nil, errors.Wrapf(ErrUnauthorized, "%s is blacklisted", req.Claimant)
	}

	newTotal, err := checkedAdd(cfg.TotalMinted, req.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "total minted")
	}
	if newTotal > cfg.TotalSupplyLimit {
		return nil, errors.Wrapf(ErrInvalidPaymentAmount, "supply limit %d would be exceeded", cfg.TotalSupplyLimit)
	}

	message := CanonicalMessage(req.Claimant, req.Amount, req.Timestamp, SignedAction_Claim)
	if err := e.verifier.Verify(req.Proof, message, req.Signature, e.backendAuthority); err != nil {
		return nil, err
	}

	now := e.now()
	if !isFresh(now, req.Timestamp) {
		return nil, errors.Wrapf(ErrExpiredSignature, "timestamp %d is more than %ds away from %d", req.Timestamp, MaxSignatureAge, now)
	}

	record := e.state.userClaimCopy(req.Claimant)
	if record == nil {
		record = model.NewUserClaim(req.Claimant, now)
	}
	resetWindows(record, now)

	hourly, err := checkedAdd(record.HourlyClaimed, req.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "hourly claimed")
	}
	if hourly > cfg.MaxHourlyClaim() {
		return nil, errors.Wrapf(ErrInvalidPaymentAmount, "hourly limit %d would be exceeded", cfg.MaxHourlyClaim())
	}
	daily, err := checkedAdd(record.DailyClaimed, req.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "daily claimed")
	}
	if daily > cfg.MaxClaimPerUser {
		return nil, errors.Wrapf(ErrInvalidPaymentAmount, "daily limit %d would be exceeded", cfg.MaxClaimPerUser)
	}
	total, err := checkedAdd(record.TotalClaimed, req.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "total claimed")
	}
	nonce, err := checkedAdd(record.Nonce, 1)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}

	balance, err := e.creditedBalance(ctx, cfg.AcceptedAsset, req.Claimant, req.Amount)
	if err != nil {
		return nil, err
	}

	record.TotalClaimed = total
	record.DailyClaimed = daily
	record.HourlyClaimed = hourly
	record.LastClaimTimestamp = now
	record.Nonce = nonce
	cfg.TotalMinted = newTotal

	changes := &Changeset{Config: cfg, UserClaims: []*model.UserClaim{record}, Balances: []*model.Balance{balance}}
	err = e.applyWithLedger(ctx, changes, func(ctx context.Context) error {
		return e.ledger.MintTo(ctx, cfg.AcceptedAsset, req.Claimant, req.Amount)
	}, func(ctx context.Context) error {
		return e.ledger.Burn(ctx, cfg.AcceptedAsset, req.Claimant, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, &model.TokenClaimEvent{
		Claimer:   req.Claimant,
		TokenMint: cfg.AcceptedAsset,
		Amount:    req.Amount,
		Timestamp: now,
	})

	log.Info().Str("section", "distribution").Str("action", "claim").
		Str("user", req.Claimant.String()).
		Uint64("amount", req.Amount).
		Uint64("nonce", nonce).
		Uint64("total_minted", newTotal).
		Msg("Tokens claimed")

	return &Receipt{
		Claimant:      req.Claimant,
		Amount:        req.Amount,
		Nonce:         nonce,
		HourlyClaimed: hourly,
		DailyClaimed:  daily,
		TotalClaimed:  total,
		TotalMinted:   newTotal,
		Timestamp:     now,
	}, nil
}

// resetWindows restarts each elapsed fixed window at now
func resetWindows(record *model.UserClaim, now int64) {
	if now-record.DailyResetTimestamp >= DailyWindow {
		record.DailyClaimed = 0
		record.DailyResetTimestamp = now
	}
	if now-record.HourlyResetTimestamp >= HourlyWindow {
		record.HourlyClaimed = 0
		record.HourlyResetTimestamp = now
	}
}

// BurnRequest destroys units held by the payer, authorized by the backend authority.
// A zero Asset burns the accepted asset.
type BurnRequest struct {
	Payer       model.Identity
	Asset       model.Identity
	Amount      uint64
	Timestamp   int64
	Signature   []byte
	Description string
	Proof       *AuthenticationProof
}

// Burn destroys units of the payer. No quota applies to burns.
func (e *Engine) Burn(ctx context.Context, req BurnRequest) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	cfg, err := e.requireConfig()
	if err != nil {
		return err
	}
	if cfg.AcceptedAsset.IsZero() {
		return ErrPaymentTokenNotConfigured
	}
	asset := req.Asset
	if asset.IsZero() {
		asset = cfg.AcceptedAsset
	}
	if asset != cfg.AcceptedAsset {
		return errors.Wrapf(ErrInvalidPaymentToken, "asset %s is not accepted", asset)
	}
	if cfg.EmergencyPaused {
		return ErrSystemPaused
	}
	if req.Amount == 0 {
		return errors.Wrap(ErrInvalidPaymentAmount, "amount must be positive")
	}
	if req.Description == "" {
		return errors.Wrap(ErrInvalidInput, "description is required")
	}

	message := CanonicalMessage(req.Payer, req.Amount, req.Timestamp, SignedAction_Burn)
	if err := e.verifier.Verify(req.Proof, message, req.Signature, e.backendAuthority); err != nil {
		return err
	}

	now := e.now()
	if !isFresh(now, req.Timestamp) {
		return errors.Wrapf(ErrExpiredSignature, "timestamp %d is more than %ds away from %d", req.Timestamp, MaxSignatureAge, now)
	}

	balance, err := e.ledger.BalanceOf(ctx, asset, req.Payer)
	if err != nil {
		return errors.Wrap(err, "unable to read payer balance")
	}
	if balance < req.Amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d is below %d", balance, req.Amount)
	}

	changes := &Changeset{Balances: []*model.Balance{model.NewBalance(asset, req.Payer, balance-req.Amount)}}
	err = e.applyWithLedger(ctx, changes, func(ctx context.Context) error {
		return e.ledger.Burn(ctx, asset, req.Payer, req.Amount)
	}, func(ctx context.Context) error {
		return e.ledger.MintTo(ctx, asset, req.Payer, req.Amount)
	})
	if err != nil {
		return err
	}

	e.emit(ctx, &model.TokenBurnEvent{
		Payer:       req.Payer,
		TokenMint:   asset,
		Amount:      req.Amount,
		Description: req.Description,
		Timestamp:   now,
	})

	log.Info().Str("section", "distribution").Str("action", "burn").
		Str("user", req.Payer.String()).
		Uint64("amount", req.Amount).
		Str("description", req.Description).
		Msg("Tokens burned")
	return nil
}

// MintRequest is an administrator mint to any recipient
type MintRequest struct {
	Admin     model.Identity
	Asset     model.Identity
	Amount    uint64
	Recipient model.Identity
}

// Mint issues units on behalf of the administrator. It does not count towards
// the claim supply cap.
func (e *Engine) Mint(ctx context.Context, req MintRequest) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	cfg, err := e.requireConfig()
	if err != nil {
		return err
	}
	if cfg.EmergencyPaused {
		return ErrSystemPaused
	}
	if req.Admin != cfg.Admin {
		return errors.Wrapf(ErrUnauthorized, "%s is not the administrator", req.Admin)
	}
	if req.Amount == 0 {
		return errors.Wrap(ErrInvalidPaymentAmount, "amount must be positive")
	}
	if req.Asset != cfg.AcceptedAsset {
		return errors.Wrapf(ErrInvalidPaymentToken, "asset %s is not accepted", req.Asset)
	}

	balance, err := e.creditedBalance(ctx, cfg.AcceptedAsset, req.Recipient, req.Amount)
	if err != nil {
		return err
	}

	changes := &Changeset{Balances: []*model.Balance{balance}}
	err = e.applyWithLedger(ctx, changes, func(ctx context.Context) error {
		return e.ledger.MintTo(ctx, cfg.AcceptedAsset, req.Recipient, req.Amount)
	}, func(ctx context.Context) error {
		return e.ledger.Burn(ctx, cfg.AcceptedAsset, req.Recipient, req.Amount)
	})
	if err != nil {
		return err
	}

	now := e.now()
	e.emit(ctx, &model.TokenMintEvent{
		Minter:    req.Admin,
		TokenMint: cfg.AcceptedAsset,
		Amount:    req.Amount,
		Recipient: req.Recipient,
		Timestamp: now,
	})

	log.Warn().Str("section", "distribution").Str("action", "mint").
		Str("admin", req.Admin.String()).
		Str("recipient", req.Recipient.String()).
		Uint64("amount", req.Amount).
		Uint64("total_minted", cfg.TotalMinted).
		Msg("Administrator mint outside of the supply limit accounting")
	return nil
}

// creditedBalance is the holding of owner once amount is minted to it
func (e *Engine) creditedBalance(ctx context.Context, asset, owner model.Identity, amount uint64) (*model.Balance, error) {
	current, err := e.ledger.BalanceOf(ctx, asset, owner)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read balance")
	}
	credited, err := checkedAdd(current, amount)
	if err != nil {
		return nil, errors.Wrapf(err, "balance of %s", owner)
	}
	return model.NewBalance(asset, owner, credited), nil
}
