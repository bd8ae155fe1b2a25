package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/ledger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// Claim runs the host ed25519 check of the attached proof and then the claim policy
func (s *Service) Claim(ctx context.Context, req distribution.ClaimRequest) (receipt *distribution.Receipt, err error) {
	defer observe("claim", time.Now(), &err)
	if err = distribution.VerifyEd25519Proof(req.Proof); err != nil {
		return nil, err
	}
	receipt, err = s.engine.Claim(ctx, req)
	if err != nil {
		return nil, err
	}
	monitor.ClaimedAmount.Add(float64(req.Amount))
	monitor.TotalMinted.Set(float64(receipt.TotalMinted))
	return receipt, nil
}

// Burn runs the host ed25519 check of the attached proof and then the burn policy
func (s *Service) Burn(ctx context.Context, req distribution.BurnRequest) (err error) {
	defer observe("burn", time.Now(), &err)
	if err = distribution.VerifyEd25519Proof(req.Proof); err != nil {
		return err
	}
	if err = s.engine.Burn(ctx, req); err != nil {
		return err
	}
	monitor.BurnedAmount.Add(float64(req.Amount))
	return nil
}

// Mint is the administrator mint; it is not bound by the supply limit
func (s *Service) Mint(ctx context.Context, req distribution.MintRequest) (err error) {
	defer observe("mint", time.Now(), &err)
	if err = s.engine.Mint(ctx, req); err != nil {
		return err
	}
	monitor.AdminMintedAmount.Add(float64(req.Amount))
	return nil
}

func (s *Service) InitializeConfig(ctx context.Context, admin, asset model.Identity, maxClaimPerUser, totalSupplyLimit uint64) (err error) {
	defer observe("initialize_config", time.Now(), &err)
	if err = s.engine.InitializeConfig(ctx, admin, asset, maxClaimPerUser, totalSupplyLimit); err != nil {
		return err
	}
	monitor.SupplyLimit.Set(float64(totalSupplyLimit))
	return nil
}

func (s *Service) InitializeBlacklist(ctx context.Context, admin model.Identity) (err error) {
	defer observe("initialize_blacklist", time.Now(), &err)
	err = s.engine.InitializeBlacklist(ctx, admin)
	return err
}

func (s *Service) AddToBlacklist(ctx context.Context, admin, user model.Identity) (err error) {
	defer observe("add_to_blacklist", time.Now(), &err)
	if err = s.engine.AddToBlacklist(ctx, admin, user); err != nil {
		return err
	}
	s.updateBlacklistSize()
	return nil
}

func (s *Service) RemoveFromBlacklist(ctx context.Context, admin, user model.Identity) (err error) {
	defer observe("remove_from_blacklist", time.Now(), &err)
	if err = s.engine.RemoveFromBlacklist(ctx, admin, user); err != nil {
		return err
	}
	s.updateBlacklistSize()
	return nil
}

func (s *Service) RequestAdminAction(ctx context.Context, admin model.Identity, action distribution.AdminAction) (err error) {
	defer observe("request_admin_action", time.Now(), &err)
	err = s.engine.RequestAdminAction(ctx, admin, action)
	return err
}

func (s *Service) ExecuteAdminAction(ctx context.Context, admin model.Identity) (err error) {
	defer observe("execute_admin_action", time.Now(), &err)
	err = s.engine.ExecuteAdminAction(ctx, admin)
	return err
}

func (s *Service) CancelAdminAction(ctx context.Context, admin model.Identity) (err error) {
	defer observe("cancel_admin_action", time.Now(), &err)
	err = s.engine.CancelAdminAction(ctx, admin)
	return err
}

func (s *Service) EmergencyPause(ctx context.Context, admin model.Identity, reason string) (err error) {
	defer observe("emergency_pause", time.Now(), &err)
	if err = s.engine.EmergencyPause(ctx, admin, reason); err != nil {
		return err
	}
	monitor.Paused.Set(1)
	return nil
}

func (s *Service) Unpause(ctx context.Context, admin model.Identity, reason string) (err error) {
	defer observe("unpause", time.Now(), &err)
	if err = s.engine.Unpause(ctx, admin, reason); err != nil {
		return err
	}
	monitor.Paused.Set(0)
	return nil
}

// GetConfig returns the configuration, nil before initialization
func (s *Service) GetConfig() *model.DistributionConfig {
	cfg, _ := s.engine.Config()
	return cfg
}

// GetUserClaim returns the claim record of a user, nil if the user never claimed
func (s *Service) GetUserClaim(user model.Identity) *model.UserClaim {
	rec, _ := s.engine.UserClaim(user)
	return rec
}

// GetBlacklist returns the registry, nil before initialization
func (s *Service) GetBlacklist() *model.Blacklist {
	bl, _ := s.engine.Blacklist()
	return bl
}

// GetPendingAction returns the timelocked request of an administrator, if any
func (s *Service) GetPendingAction(admin model.Identity) *model.PendingAdminAction {
	p, _ := s.engine.PendingAction(admin)
	return p
}

func (s *Service) IsBlacklisted(user model.Identity) bool {
	return s.engine.IsBlacklisted(user)
}

// GetBalance reads the balance of the accepted asset held by the owner
func (s *Service) GetBalance(ctx context.Context, owner model.Identity) (uint64, error) {
	cfg, ok := s.engine.Config()
	if !ok {
		return 0, distribution.ErrPaymentTokenNotConfigured
	}
	return s.ledger.BalanceOf(ctx, cfg.AcceptedAsset, owner)
}

// GetHolders lists every non-zero balance of the accepted asset to the administrator
func (s *Service) GetHolders(caller model.Identity) ([]ledger.BalanceView, error) {
	cfg, ok := s.engine.Config()
	if !ok {
		return nil, distribution.ErrPaymentTokenNotConfigured
	}
	if caller != cfg.Admin {
		return nil, errors.Wrapf(distribution.ErrUnauthorized, "%s is not the administrator", caller)
	}
	return s.ledger.Holders(cfg.AcceptedAsset), nil
}

func (s *Service) updateBlacklistSize() {
	bl, ok := s.engine.Blacklist()
	if !ok {
		return
	}
	monitor.BlacklistSize.Set(float64(len(bl.Users)))
	log.Debug().Str("section", "service").Int("blacklist_size", len(bl.Users)).Msg("Blacklist updated")
}
