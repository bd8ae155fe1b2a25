package crons

import (
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/queries"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

// CronUpdateDistributionMetrics refreshes the distribution gauges
func CronUpdateDistributionMetrics(engine *distribution.Engine, repo *queries.Repo) {
	if cfg, ok := engine.Config(); ok {
		monitor.TotalMinted.Set(float64(cfg.TotalMinted))
		monitor.SupplyLimit.Set(float64(cfg.TotalSupplyLimit))
		monitor.Paused.Set(monitor.BoolGauge(cfg.EmergencyPaused))
	}
	if bl, ok := engine.Blacklist(); ok {
		monitor.BlacklistSize.Set(float64(len(bl.Users)))
	}

	if repo == nil {
		return
	}
	count, err := repo.CountUserClaims()
	if err != nil {
		log.Error().Err(err).Str("section", "crons").Str("cron", "update_distribution_metrics").Msg("Unable to count user claims")
		return
	}
	monitor.UserClaimsCount.Set(float64(count))
}
