package actions

import (
	"io"

	"github.com/gin-gonic/gin"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// InitializeConfigRequest swagger:model InitializeConfigRequest
type InitializeConfigRequest struct {
	Asset            model.Identity `json:"asset"`
	MaxClaimPerUser  uint64         `json:"max_claim_per_user"`
	TotalSupplyLimit uint64         `json:"total_supply_limit"`
}

// MintTokensRequest swagger:model MintTokensRequest
type MintTokensRequest struct {
	Asset     model.Identity `json:"asset"`
	Amount    uint64         `json:"amount"`
	Recipient model.Identity `json:"recipient"`
}

// AdminActionRequest swagger:model AdminActionRequest
type AdminActionRequest struct {
	ActionType model.AdminActionType `json:"action_type"`
	// unused by emergency_withdraw
	NewValue model.Identity `json:"new_value"`
}

// PauseRequest swagger:model PauseRequest
type PauseRequest struct {
	Reason string `json:"reason"`
}

// InitializeConfig godoc
// swagger:route POST /admin/config admin initialize_config
// Initialize the distribution
//
// Create the configuration with the caller as administrator. It can only run once.
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Responses:
//	  201: DistributionConfig
//	  400: RequestError
func (actions *Actions) InitializeConfig(c *gin.Context) {
	req := InitializeConfigRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, BadRequest, "Invalid configuration request")
		return
	}
	if err := actions.service.InitializeConfig(c.Request.Context(), getCaller(c), req.Asset, req.MaxClaimPerUser, req.TotalSupplyLimit); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(Created, actions.service.GetConfig())
}

// InitializeBlacklist creates the empty blacklist
func (actions *Actions) InitializeBlacklist(c *gin.Context) {
	if err := actions.service.InitializeBlacklist(c.Request.Context(), getCaller(c)); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(Created, actions.service.GetBlacklist())
}

// MintTokens godoc
// swagger:route POST /admin/mint admin mint_tokens
// Mint tokens
//
// Administrator mint. It is not bound by the supply limit and does not count
// towards the total minted.
//
//	Responses:
//	  200: StringResp
//	  403: RequestError
func (actions *Actions) MintTokens(c *gin.Context) {
	req := MintTokensRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, BadRequest, "Invalid mint request")
		return
	}
	asset := req.Asset
	if asset.IsZero() {
		if cfg := actions.service.GetConfig(); cfg != nil {
			asset = cfg.AcceptedAsset
		}
	}
	err := actions.service.Mint(c.Request.Context(), distribution.MintRequest{
		Admin:     getCaller(c),
		Asset:     asset,
		Amount:    req.Amount,
		Recipient: req.Recipient,
	})
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]interface{}{"message": "Tokens minted", "amount": req.Amount, "recipient": req.Recipient})
}

// GetBlacklist godoc
// swagger:route GET /admin/blacklist admin get_blacklist
// Get the blacklist
//
//	Responses:
//	  200: Blacklist
//	  404: RequestError
func (actions *Actions) GetBlacklist(c *gin.Context) {
	bl := actions.service.GetBlacklist()
	if bl == nil {
		abortWithError(c, NotFound, "Blacklist not initialized")
		return
	}
	c.JSON(OK, bl)
}

// AddToBlacklist bans a user from claiming
func (actions *Actions) AddToBlacklist(c *gin.Context) {
	user, ok := getIdentityParam(c, "user")
	if !ok {
		return
	}
	if err := actions.service.AddToBlacklist(c.Request.Context(), getCaller(c), user); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, actions.service.GetBlacklist())
}

// RemoveFromBlacklist lifts the ban of a user
func (actions *Actions) RemoveFromBlacklist(c *gin.Context) {
	user, ok := getIdentityParam(c, "user")
	if !ok {
		return
	}
	if err := actions.service.RemoveFromBlacklist(c.Request.Context(), getCaller(c), user); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, actions.service.GetBlacklist())
}

// GetHolders lists the balances of the accepted asset. Administrator only.
func (actions *Actions) GetHolders(c *gin.Context) {
	holders, err := actions.service.GetHolders(getCaller(c))
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, holders)
}

// RequestAdminAction godoc
// swagger:route POST /admin/actions admin request_admin_action
// Request a timelocked admin action
//
// The action can be executed once the delay elapsed. A new request replaces
// the pending one of the same administrator.
//
//	Responses:
//	  201: PendingAdminAction
//	  400: RequestError
//	  403: RequestError
func (actions *Actions) RequestAdminAction(c *gin.Context) {
	req := AdminActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, BadRequest, "Invalid admin action request")
		return
	}
	action, err := distribution.NewAdminAction(req.ActionType, req.NewValue)
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	admin := getCaller(c)
	if err := actions.service.RequestAdminAction(c.Request.Context(), admin, action); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(Created, actions.service.GetPendingAction(admin))
}

// ExecuteAdminAction applies the pending action of the caller once the delay elapsed
func (actions *Actions) ExecuteAdminAction(c *gin.Context) {
	admin := getCaller(c)
	if err := actions.service.ExecuteAdminAction(c.Request.Context(), admin); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, actions.service.GetPendingAction(admin))
}

// CancelAdminAction drops the pending action of the caller
func (actions *Actions) CancelAdminAction(c *gin.Context) {
	if err := actions.service.CancelAdminAction(c.Request.Context(), getCaller(c)); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]string{"message": "Admin action cancelled"})
}

// GetPendingAction returns the timelocked request of an administrator
func (actions *Actions) GetPendingAction(c *gin.Context) {
	admin, ok := getIdentityParam(c, "admin")
	if !ok {
		return
	}
	p := actions.service.GetPendingAction(admin)
	if p == nil {
		abortWithError(c, NotFound, "No pending action")
		return
	}
	c.JSON(OK, p)
}

// EmergencyPause godoc
// swagger:route POST /admin/pause admin emergency_pause
// Pause claims, burns and mints
//
//	Responses:
//	  200: StringResp
//	  403: RequestError
func (actions *Actions) EmergencyPause(c *gin.Context) {
	req := PauseRequest{}
	// the reason is optional
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		abortWithError(c, BadRequest, "Invalid pause request")
		return
	}
	if err := actions.service.EmergencyPause(c.Request.Context(), getCaller(c), req.Reason); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]string{"message": "Distribution paused"})
}

// Unpause resumes the distribution
func (actions *Actions) Unpause(c *gin.Context) {
	req := PauseRequest{}
	// the reason is optional
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		abortWithError(c, BadRequest, "Invalid unpause request")
		return
	}
	if err := actions.service.Unpause(c.Request.Context(), getCaller(c), req.Reason); err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]string{"message": "Distribution resumed"})
}
