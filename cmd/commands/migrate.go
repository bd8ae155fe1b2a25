package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"

	cfg "gitlab.com/paramountdax-exchange/distribution_api/config"

	"github.com/golang-migrate/migrate/v4"

	// import support for file mime type
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsPath is where the schema migrations are read from
var MigrationsPath = "file://./db/migrations"

// DatabaseURI builds the migrate connection string of a database
func DatabaseURI(dbConf cfg.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		dbConf.Username, dbConf.Password, dbConf.Host, dbConf.Port, dbConf.Name, dbConf.SSLmode)
}

// Migrate the current database schema to the new version
func Migrate(config cfg.Config) {
	if config.Distribution.Store == cfg.StoreType_Memory {
		log.Info().Str("section", "migrate").Msg("In-memory store, skipping migrations")
		return
	}

	m, err := migrate.New(MigrationsPath, DatabaseURI(config.DatabaseCluster.Writer))
	if err != nil {
		log.Fatal().Err(err).Str("section", "migrate").Msg("Unable to connect to database [WRITER]")
		return
	}
	defer m.Close()

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		if errMapped, ok := err.(migrate.ErrDirty); ok {
			log.Fatal().Err(err).Str("section", "migrate").Int("version", errMapped.Version).Msg("Unable to execute migration")
		} else {
			log.Fatal().Err(err).Str("section", "migrate").Msg("Unable to execute unknown migration")
		}
		return
	}
	version, dirty, _ := m.Version()
	log.Info().Str("section", "migrate").Uint("version", version).Bool("dirty", dirty).Msg("Migrations executed successfully")
}
