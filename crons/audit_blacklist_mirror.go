package crons

import (
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// CronAuditBlacklistMirror reports claim records whose mirrored blacklist flag
// disagrees with the registry. Claims consult the flag of an existing record and
// the registry only for users without one, so a drifted flag decides claims.
func CronAuditBlacklistMirror(engine *distribution.Engine) []string {
	drift := engine.BlacklistMirrorDrift()
	monitor.BlacklistDrift.Set(float64(len(drift)))

	users := make([]string, 0, len(drift))
	for _, user := range drift {
		users = append(users, user.String())
	}
	if len(users) > 0 {
		log.Warn().Str("section", "crons").Str("cron", "audit_blacklist_mirror").
			Strs("users", users).
			Msg("Claim records out of sync with the blacklist")
	}
	return users
}
