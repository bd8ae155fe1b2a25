package crons

import (
	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gitlab.com/paramountdax-exchange/distribution_api/queries"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

var cronService *cron.Cron

// Start Initiate the crons based on the given configuration file
func Start(crons config.Crons, engine *distribution.Engine, repo *queries.Repo) {
	cronService = cron.New()
	for id, schedule := range crons {
		callback := GetCronByID(id, engine, repo)
		if err := cronService.AddFunc(schedule, callback); err != nil {
			log.Error().Err(err).Str("section", "crons").Str("cron", id).Str("schedule", schedule).Msg("Unable to schedule cron")
			continue
		}
		// run once at startup so the gauges are populated before the first tick
		callback()
	}
	cronService.Start()
}

// GetCronByID get a function to execute based on the id
func GetCronByID(id string, engine *distribution.Engine, repo *queries.Repo) func() {
	switch id {
	case "update_distribution_metrics":
		return func() {
			CronUpdateDistributionMetrics(engine, repo)
		}
	case "audit_blacklist_mirror":
		return func() {
			CronAuditBlacklistMirror(engine)
		}
	}
	log.Warn().Str("section", "crons").Str("cron", id).Msg("Unknown cron id")
	return (func() {})
}

// Close godoc
func Close() {
	if cronService == nil {
		return
	}
	cronService.Stop()
}
