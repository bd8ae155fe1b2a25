package model

import "time"

// DistributionConfigID is the primary key of the singleton configuration row
const DistributionConfigID uint64 = 1

// HoursPerDay divides the daily quota into the hourly quota
const HoursPerDay = 24

// DistributionConfig holds the global distribution policy and supply counters
type DistributionConfig struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	AcceptedAsset    Identity  `gorm:"column:accepted_asset;type:varchar(44)" json:"accepted_asset"`
	Admin            Identity  `gorm:"column:admin;type:varchar(44)" json:"admin"`
	EmergencyPaused  bool      `gorm:"column:emergency_paused" json:"emergency_paused"`
	MaxClaimPerUser  uint64    `gorm:"column:max_claim_per_user" json:"max_claim_per_user"`
	TotalSupplyLimit uint64    `gorm:"column:total_supply_limit" json:"total_supply_limit"`
	TotalMinted      uint64    `gorm:"column:total_minted" json:"total_minted"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// NewDistributionConfig creates the unpaused configuration with nothing minted yet
func NewDistributionConfig(admin, asset Identity, maxClaimPerUser, totalSupplyLimit uint64) *DistributionConfig {
	return &DistributionConfig{
		ID:               DistributionConfigID,
		AcceptedAsset:    asset,
		Admin:            admin,
		MaxClaimPerUser:  maxClaimPerUser,
		TotalSupplyLimit: totalSupplyLimit,
	}
}

// MaxHourlyClaim is the hourly quota: a 24th of the daily quota, truncated
func (cfg *DistributionConfig) MaxHourlyClaim() uint64 {
	return cfg.MaxClaimPerUser / HoursPerDay
}

// SupplyHeadroom is what the claim path may still mint
func (cfg *DistributionConfig) SupplyHeadroom() uint64 {
	if cfg.TotalMinted >= cfg.TotalSupplyLimit {
		return 0
	}
	return cfg.TotalSupplyLimit - cfg.TotalMinted
}
