package queries

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repo holds the writer and reader connections to the database
type Repo struct {
	Conn       *gorm.DB
	ConnReader *gorm.DB
}

var repo *Repo
var repoOnce sync.Once

// InitRepo opens the connections of the database cluster once
func InitRepo(cfg config.DatabaseClusterConfig) *Repo {
	repoOnce.Do(func() {
		writer, err := open(cfg.Writer)
		if err != nil {
			log.Fatal().Err(err).Str("section", "queries").Msg("Unable to connect to database [WRITER]")
		}
		reader := writer
		if cfg.Reader.Host != "" {
			reader, err = open(cfg.Reader)
			if err != nil {
				log.Fatal().Err(err).Str("section", "queries").Msg("Unable to connect to database [READER]")
			}
		}
		repo = &Repo{Conn: writer, ConnReader: reader}
	})
	return repo
}

// GetRepo returns the repository opened by InitRepo
func GetRepo() *Repo {
	return repo
}

// Close the database connections
func Close() {
	if repo == nil {
		return
	}
	for name, conn := range map[string]*gorm.DB{"writer": repo.Conn, "reader": repo.ConnReader} {
		db, err := conn.DB()
		if err != nil {
			continue
		}
		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("section", "queries").Str("connection", name).Msg("Unable to close database connection")
		}
	}
}

func open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Name, cfg.SSLmode, cfg.ApplicationName,
	)
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	db, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	return conn, nil
}
