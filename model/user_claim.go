package model

import "time"

// UserClaim tracks the claim history and fixed-window quotas of one claimant
type UserClaim struct {
	User                 Identity  `gorm:"primaryKey;column:wallet;type:varchar(44)" json:"user"`
	TotalClaimed         uint64    `gorm:"column:total_claimed" json:"total_claimed"`
	LastClaimTimestamp   int64     `gorm:"column:last_claim_timestamp" json:"last_claim_timestamp"`
	DailyClaimed         uint64    `gorm:"column:daily_claimed" json:"daily_claimed"`
	DailyResetTimestamp  int64     `gorm:"column:daily_reset_timestamp" json:"daily_reset_timestamp"`
	HourlyClaimed        uint64    `gorm:"column:hourly_claimed" json:"hourly_claimed"`
	HourlyResetTimestamp int64     `gorm:"column:hourly_reset_timestamp" json:"hourly_reset_timestamp"`
	Nonce                uint64    `gorm:"column:nonce" json:"nonce"`
	IsBlacklisted        bool      `gorm:"column:is_blacklisted" json:"is_blacklisted"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}

// NewUserClaim creates a record with zeroed counters and both windows starting at now
func NewUserClaim(user Identity, now int64) *UserClaim {
	return &UserClaim{
		User:                 user,
		DailyResetTimestamp:  now,
		HourlyResetTimestamp: now,
	}
}

// Clone returns an independent copy of the record
func (claim *UserClaim) Clone() *UserClaim {
	c := *claim
	return &c
}
