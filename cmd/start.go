package cmd

import (
	"github.com/rs/zerolog/log"

	"gitlab.com/paramountdax-exchange/distribution_api/cmd/commands"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gitlab.com/paramountdax-exchange/distribution_api/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the distribution API",
	Long:  `Migrate the database, restore the distribution state and serve the HTTP API and the monitoring endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		// load server configuration from server
		log.Debug().Msg("Loading server configuration")
		if viper.ConfigFileUsed() != "" {
			log.Debug().Str("section", "init").Str("path", viper.ConfigFileUsed()).Msg("Configuration file loaded")
		}
		cfg := config.LoadConfig(viper.GetViper())
		// Running migrations
		log.Debug().Msg("Running migrations")
		commands.Migrate(cfg)

		// start a new server
		log.Debug().Str("section", "init").Msg("Starting new server instance")
		srv := server.NewServer(cfg)
		// listen for new messages
		log.Info().Str("section", "init").Msg("Listening for incoming requests")
		srv.Listen()
	},
}
