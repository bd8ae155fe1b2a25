package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	cfg "gitlab.com/paramountdax-exchange/distribution_api/config"
)

func TestDatabaseURI(t *testing.T) {
	uri := DatabaseURI(cfg.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		Username: "distribution",
		Password: "secret",
		Name:     "distribution",
		SSLmode:  "disable",
	})
	assert.Equal(t, "postgres://distribution:secret@db:5432/distribution?sslmode=disable", uri)
}

func TestMigrateSkipsMemoryStore(t *testing.T) {
	config := cfg.Config{}
	config.Distribution.Store = cfg.StoreType_Memory
	assert.NotPanics(t, func() { Migrate(config) })
}
