package model

import "time"

// AdminActionType is the kind of privileged change guarded by the timelock
// swagger:model AdminActionType
// example: change_admin
// enum: change_admin,change_asset,emergency_withdraw
type AdminActionType string

const (
	AdminActionType_ChangeAdmin       AdminActionType = "change_admin"
	AdminActionType_ChangeAsset       AdminActionType = "change_asset"
	AdminActionType_EmergencyWithdraw AdminActionType = "emergency_withdraw"
)

func (t AdminActionType) String() string {
	return string(t)
}

// IsValid checks the action type against the known kinds
func (t AdminActionType) IsValid() bool {
	switch t {
	case AdminActionType_ChangeAdmin,
		AdminActionType_ChangeAsset,
		AdminActionType_EmergencyWithdraw:
		return true
	default:
		return false
	}
}

// Label is the name used in audit events, e.g. REQUEST_ChangeAdmin
func (t AdminActionType) Label() string {
	switch t {
	case AdminActionType_ChangeAdmin:
		return "ChangeAdmin"
	case AdminActionType_ChangeAsset:
		return "ChangeAsset"
	case AdminActionType_EmergencyWithdraw:
		return "EmergencyWithdraw"
	default:
		return "Unknown"
	}
}

// PendingAdminAction is the single live timelocked request of an administrator
type PendingAdminAction struct {
	Admin       Identity        `gorm:"primaryKey;column:admin;type:varchar(44)" json:"admin"`
	ActionType  AdminActionType `gorm:"column:action_type;type:varchar(32)" json:"action_type"`
	NewValue    Identity        `gorm:"column:new_value;type:varchar(44)" json:"new_value"`
	RequestedAt int64           `gorm:"column:requested_at" json:"requested_at"`
	Executed    bool            `gorm:"column:executed" json:"executed"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// NewPendingAdminAction creates a not yet executed request
func NewPendingAdminAction(admin Identity, actionType AdminActionType, newValue Identity, requestedAt int64) *PendingAdminAction {
	return &PendingAdminAction{
		Admin:       admin,
		ActionType:  actionType,
		NewValue:    newValue,
		RequestedAt: requestedAt,
	}
}

// Clone returns an independent copy of the request
func (action *PendingAdminAction) Clone() *PendingAdminAction {
	c := *action
	return &c
}
