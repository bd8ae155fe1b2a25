package model

import "time"

// Balance is the persisted holding of one owner in one asset
type Balance struct {
	Asset     Identity  `gorm:"primaryKey;column:asset;type:varchar(44)" json:"asset"`
	Owner     Identity  `gorm:"primaryKey;column:wallet;type:varchar(44)" json:"owner"`
	Amount    uint64    `gorm:"column:amount" json:"amount"`
	UpdatedAt time.Time `json:"-"`
}

func NewBalance(asset, owner Identity, amount uint64) *Balance {
	return &Balance{Asset: asset, Owner: owner, Amount: amount}
}
