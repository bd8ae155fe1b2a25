package model

import "time"

// BlacklistCapacity is the maximum number of banned identities in the registry
const BlacklistCapacity = 100

// BlacklistID is the primary key of the singleton registry row
const BlacklistID uint64 = 1

// Blacklist is the registry of identities forbidden from claiming
type Blacklist struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Admin     Identity   `gorm:"column:admin;type:varchar(44)" json:"admin"`
	Users     []Identity `gorm:"-" json:"blacklisted_users"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// BlacklistEntry is one persisted member of the registry
type BlacklistEntry struct {
	User      Identity  `gorm:"primaryKey;column:wallet;type:varchar(44)" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBlacklist creates an empty registry owned by the given administrator
func NewBlacklist(admin Identity) *Blacklist {
	return &Blacklist{
		ID:    BlacklistID,
		Admin: admin,
		Users: []Identity{},
	}
}

// Contains reports registry membership
func (bl *Blacklist) Contains(user Identity) bool {
	for _, u := range bl.Users {
		if u == user {
			return true
		}
	}
	return false
}

// IsFull reports whether another identity can be added
func (bl *Blacklist) IsFull() bool {
	return len(bl.Users) >= BlacklistCapacity
}

// Add appends the user if absent and reports whether the registry changed
func (bl *Blacklist) Add(user Identity) bool {
	if bl.Contains(user) {
		return false
	}
	bl.Users = append(bl.Users, user)
	return true
}

// Remove deletes the user if present and reports whether the registry changed
func (bl *Blacklist) Remove(user Identity) bool {
	for i, u := range bl.Users {
		if u == user {
			bl.Users = append(bl.Users[:i], bl.Users[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the registry
func (bl *Blacklist) Clone() *Blacklist {
	c := *bl
	c.Users = make([]Identity, len(bl.Users))
	copy(c.Users, bl.Users)
	return &c
}
