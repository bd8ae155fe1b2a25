package actions

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gitlab.com/paramountdax-exchange/distribution_api/logger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// RequestError is the body of every failed request
// swagger:model RequestError
type RequestError struct {
	Error string `json:"error"`
	// policy error code, 6000 and above
	Code uint32 `json:"code,omitempty"`
	// policy error name, e.g. SystemPaused
	Reason string `json:"reason,omitempty"`
}

// Ping godoc
// swagger:route GET /ping misc ping
// Ping
//
// Ping the server
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: StringResp
func Ping(c *gin.Context) {
	c.JSON(OK, "pong")
}

func abortWithError(c *gin.Context, code int, message string) {
	l := getlog(c)
	l.Debug().Int("resp_code", code).Msg(message)
	c.AbortWithStatusJSON(code, RequestError{Error: message})
}

// abortWithDistributionError maps a policy violation to its HTTP status. Anything
// else is an infrastructure failure and is not described to the caller.
func abortWithDistributionError(c *gin.Context, err error) {
	l := getlog(c)
	code, ok := distribution.CodeOf(err)
	if !ok {
		l.Error().Err(err).Str("section", "actions").Msg("Unable to process request")
		c.AbortWithStatusJSON(ServerError, RequestError{Error: "Unable to process request"})
		return
	}
	status := statusOf(code)
	l.Debug().Err(err).Int("resp_code", status).Str("reason", code.String()).Msg("Request rejected")
	c.AbortWithStatusJSON(status, RequestError{
		Error:  err.Error(),
		Code:   uint32(code),
		Reason: code.String(),
	})
}

func statusOf(code distribution.ErrorCode) int {
	switch code {
	case distribution.ErrorCode_InvalidSignature,
		distribution.ErrorCode_ExpiredSignature:
		return Unauthorized
	case distribution.ErrorCode_Unauthorized:
		return AccessDenied
	case distribution.ErrorCode_InvalidPaymentToken,
		distribution.ErrorCode_InvalidInput:
		return BadRequest
	case distribution.ErrorCode_InvalidPaymentAmount,
		distribution.ErrorCode_InsufficientFunds,
		distribution.ErrorCode_MathOverflow:
		return ValidationFailed
	case distribution.ErrorCode_PaymentTokenNotConfigured:
		return PreconditionFailed
	case distribution.ErrorCode_SystemPaused:
		return ServiceUnavailable
	default:
		return ServerError
	}
}

func getlog(c *gin.Context) zerolog.Logger {
	return logger.GetLogger(c)
}

// getCaller returns the identity set by RequireCaller
func getCaller(c *gin.Context) model.Identity {
	if v, ok := c.Get(logger.CallerKey); ok {
		return v.(model.Identity)
	}
	return model.ZeroIdentity
}

// getIdentityParam parses a base58 identity from the route
func getIdentityParam(c *gin.Context, name string) (model.Identity, bool) {
	id, err := model.ParseIdentity(c.Param(name))
	if err != nil {
		abortWithError(c, BadRequest, "Invalid "+name+" identity")
		return id, false
	}
	return id, true
}
