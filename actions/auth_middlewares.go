package actions

import (
	"github.com/gin-gonic/gin"
	"gitlab.com/paramountdax-exchange/distribution_api/logger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// CallerHeader carries the base58 identity that signed the request. The host
// in front of the service authenticates it.
const CallerHeader = "X-Caller"

// RequireCaller rejects requests without a valid caller identity
func (actions *Actions) RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CallerHeader)
		if raw == "" {
			abortWithError(c, Unauthorized, "Missing caller identity")
			return
		}
		caller, err := model.ParseIdentity(raw)
		if err != nil || caller.IsZero() {
			abortWithError(c, Unauthorized, "Invalid caller identity")
			return
		}
		c.Set(logger.CallerKey, caller)
		l := getlog(c).With().Str("caller", caller.String()).Logger()
		c.Set("_log", l)
		c.Next()
	}
}
