package model

// EventType identifies the audit record handed to the event emitter
type EventType string

const (
	EventType_TokenClaim  EventType = "token_claim"
	EventType_TokenBurn   EventType = "token_burn"
	EventType_TokenMint   EventType = "token_mint"
	EventType_Security    EventType = "security"
	EventType_AdminAction EventType = "admin_action"
)

// Security event kinds
const (
	SecurityEvent_UserBlacklisted   = "USER_BLACKLISTED"
	SecurityEvent_UserUnblacklisted = "USER_UNBLACKLISTED"
	SecurityEvent_EmergencyPause    = "EMERGENCY_PAUSE"
	SecurityEvent_EmergencyUnpause  = "EMERGENCY_UNPAUSE"
)

// Admin action event names
const (
	AdminEvent_BlacklistAdd      = "BLACKLIST_ADD"
	AdminEvent_ChangeAdmin       = "CHANGE_ADMIN"
	AdminEvent_ChangeAsset       = "CHANGE_ASSET"
	AdminEvent_EmergencyWithdraw = "EMERGENCY_WITHDRAW"
	AdminEvent_RequestPrefix     = "REQUEST_"
	AdminEvent_CancelPrefix      = "CANCEL_"
)

// Event is an audit record
type Event interface {
	EventType() EventType
	// UnixTime is the host clock reading of the operation that produced the event
	UnixTime() int64
}

// TokenClaimEvent is emitted after a successful claim
type TokenClaimEvent struct {
	Claimer   Identity `json:"claimer"`
	TokenMint Identity `json:"token_mint"`
	Amount    uint64   `json:"amount"`
	Timestamp int64    `json:"timestamp"`
}

func (e *TokenClaimEvent) EventType() EventType { return EventType_TokenClaim }
func (e *TokenClaimEvent) UnixTime() int64       { return e.Timestamp }

// TokenBurnEvent is emitted after a successful burn
type TokenBurnEvent struct {
	Payer       Identity `json:"payer"`
	TokenMint   Identity `json:"token_mint"`
	Amount      uint64   `json:"amount"`
	Description string   `json:"description"`
	Timestamp   int64    `json:"timestamp"`
}

func (e *TokenBurnEvent) EventType() EventType { return EventType_TokenBurn }
func (e *TokenBurnEvent) UnixTime() int64       { return e.Timestamp }

// TokenMintEvent is emitted after an administrator mint
type TokenMintEvent struct {
	Minter    Identity `json:"minter"`
	TokenMint Identity `json:"token_mint"`
	Amount    uint64   `json:"amount"`
	Recipient Identity `json:"recipient"`
	Timestamp int64    `json:"timestamp"`
}

func (e *TokenMintEvent) EventType() EventType { return EventType_TokenMint }
func (e *TokenMintEvent) UnixTime() int64       { return e.Timestamp }

// SecurityEvent records blacklist and pause changes
type SecurityEvent struct {
	Kind      string   `json:"event_type"`
	User      Identity `json:"user"`
	Reason    string   `json:"reason"`
	Timestamp int64    `json:"timestamp"`
}

func (e *SecurityEvent) EventType() EventType { return EventType_Security }
func (e *SecurityEvent) UnixTime() int64       { return e.Timestamp }

// AdminActionEvent records privileged operations
type AdminActionEvent struct {
	Admin     Identity `json:"admin"`
	Action    string   `json:"action"`
	Details   string   `json:"details"`
	Timestamp int64    `json:"timestamp"`
}

func (e *AdminActionEvent) EventType() EventType { return EventType_AdminAction }
func (e *AdminActionEvent) UnixTime() int64       { return e.Timestamp }
