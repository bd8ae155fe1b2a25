package actions

import (
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/paramountdax-exchange/distribution_api/logger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// ProofRequest is the signature verification attached to a claim or a burn.
// Byte fields are base64 encoded.
// swagger:model ProofRequest
type ProofRequest struct {
	ProgramID model.Identity `json:"program_id"`
	Signer    model.Identity `json:"signer"`
	Message   []byte         `json:"message"`
	Signature []byte         `json:"signature"`
}

func (p *ProofRequest) toProof() *distribution.AuthenticationProof {
	if p == nil {
		return nil
	}
	return &distribution.AuthenticationProof{
		ProgramID: p.ProgramID,
		Signer:    p.Signer,
		Message:   p.Message,
		Signature: p.Signature,
	}
}

// ClaimTokensRequest swagger:model ClaimTokensRequest
type ClaimTokensRequest struct {
	// empty for the accepted asset
	Asset     model.Identity `json:"asset"`
	Amount    uint64         `json:"amount"`
	Timestamp int64          `json:"timestamp"`
	Signature []byte         `json:"signature"`
	Proof     *ProofRequest  `json:"proof"`
}

// BurnTokensRequest swagger:model BurnTokensRequest
type BurnTokensRequest struct {
	Asset       model.Identity `json:"asset"`
	Amount      uint64         `json:"amount"`
	Timestamp   int64          `json:"timestamp"`
	Signature   []byte         `json:"signature"`
	Description string         `json:"description"`
	Proof       *ProofRequest  `json:"proof"`
}

// ClaimTokens godoc
// swagger:route POST /claims distribution claim_tokens
// Claim tokens
//
// Mint tokens to the caller within the daily, hourly and global limits. The
// request must carry a proof signed by the backend authority.
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: Receipt
//	  400: RequestError
//	  401: RequestError
//	  403: RequestError
//	  422: RequestError
//	  503: RequestError
func (actions *Actions) ClaimTokens(c *gin.Context) {
	req := ClaimTokensRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, BadRequest, "Invalid claim request")
		return
	}
	asset := req.Asset
	if asset.IsZero() {
		if cfg := actions.service.GetConfig(); cfg != nil {
			asset = cfg.AcceptedAsset
		}
	}

	timeCtx := logger.TimeContextOf(c)
	logger.LogTimestamp(timeCtx, "claim_pre_engine", time.Now())
	receipt, err := actions.service.Claim(c.Request.Context(), distribution.ClaimRequest{
		Claimant:  getCaller(c),
		Asset:     asset,
		Amount:    req.Amount,
		Timestamp: req.Timestamp,
		Signature: req.Signature,
		Proof:     req.Proof.toProof(),
	})
	logger.LogTimestamp(timeCtx, "claim_post_engine", time.Now())
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, receipt)
}

// BurnTokens godoc
// swagger:route POST /burns distribution burn_tokens
// Burn tokens
//
// Destroy tokens held by the caller. The request must carry a proof signed by
// the backend authority.
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Responses:
//	  200: StringResp
//	  400: RequestError
//	  401: RequestError
//	  422: RequestError
func (actions *Actions) BurnTokens(c *gin.Context) {
	req := BurnTokensRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, BadRequest, "Invalid burn request")
		return
	}
	timeCtx := logger.TimeContextOf(c)
	logger.LogTimestamp(timeCtx, "burn_pre_engine", time.Now())
	err := actions.service.Burn(c.Request.Context(), distribution.BurnRequest{
		Payer:       getCaller(c),
		Asset:       req.Asset,
		Amount:      req.Amount,
		Timestamp:   req.Timestamp,
		Signature:   req.Signature,
		Description: req.Description,
		Proof:       req.Proof.toProof(),
	})
	logger.LogTimestamp(timeCtx, "burn_post_engine", time.Now())
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]interface{}{"message": "Tokens burned", "amount": req.Amount})
}

// GetConfig godoc
// swagger:route GET /config distribution get_config
// Get the distribution configuration
//
//	Responses:
//	  200: DistributionConfig
//	  404: RequestError
func (actions *Actions) GetConfig(c *gin.Context) {
	cfg := actions.service.GetConfig()
	if cfg == nil {
		abortWithError(c, NotFound, "Configuration not initialized")
		return
	}
	c.JSON(OK, cfg)
}

// GetUserClaim returns the claim record of a user
func (actions *Actions) GetUserClaim(c *gin.Context) {
	user, ok := getIdentityParam(c, "user")
	if !ok {
		return
	}
	rec := actions.service.GetUserClaim(user)
	if rec == nil {
		abortWithError(c, NotFound, "No claims for this user")
		return
	}
	c.JSON(OK, rec)
}

// GetBalance returns the balance of the accepted asset held by a user
func (actions *Actions) GetBalance(c *gin.Context) {
	user, ok := getIdentityParam(c, "user")
	if !ok {
		return
	}
	balance, err := actions.service.GetBalance(c.Request.Context(), user)
	if err != nil {
		abortWithDistributionError(c, err)
		return
	}
	c.JSON(OK, map[string]interface{}{"owner": user, "balance": balance})
}
