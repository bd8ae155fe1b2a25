package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/net/kafka"
)

// Store types of the distribution state
const (
	StoreType_Postgres = "postgres"
	StoreType_Memory   = "memory"
)

// Config structure
type Config struct {
	Server          ServerConfig
	Kafka           kafka.Config          `mapstructure:"kafka"`
	DatabaseCluster DatabaseClusterConfig `mapstructure:"database_cluster"`
	Distribution    Distribution          `mapstructure:"distribution"`
	Crons           Crons                 `mapstructure:"crons"`
}

// ServerConfig structure
type ServerConfig struct {
	Monitoring monitor.Config `mapstructure:"monitoring"`
	API        APIConfig      `mapstructure:"api"`
}

// APIConfig structure
type APIConfig struct {
	Port      int
	KeepAlive bool `mapstructure:"keep_alive"`
	Domain    string
}

// Distribution configures the engine and its collaborators
type Distribution struct {
	// BackendAuthority is the base58 identity whose proofs authorize claims and burns
	BackendAuthority string `mapstructure:"backend_authority"`
	// BindMessage makes the verifier compare the proof with the expected message and signer
	BindMessage bool `mapstructure:"bind_message"`
	// Store is postgres or memory
	Store string `mapstructure:"store"`
	// Events lists the audit sinks: log, kafka
	Events    []string  `mapstructure:"events"`
	Bootstrap Bootstrap `mapstructure:"bootstrap"`
}

// Bootstrap initializes an empty store on start
type Bootstrap struct {
	Enabled          bool   `mapstructure:"enabled"`
	Admin            string `mapstructure:"admin"`
	AcceptedAsset    string `mapstructure:"accepted_asset"`
	MaxClaimPerUser  uint64 `mapstructure:"max_claim_per_user"`
	TotalSupplyLimit uint64 `mapstructure:"total_supply_limit"`
	Blacklist        bool   `mapstructure:"blacklist"`
}

// HasEventSink reports whether the named sink is configured
func (d Distribution) HasEventSink(name string) bool {
	for _, sink := range d.Events {
		if sink == name {
			return true
		}
	}
	return false
}

// Crons - mapping of ids to execution frequency
type Crons map[string]string

// DatabaseClusterConfig structure
type DatabaseClusterConfig struct {
	Writer DatabaseConfig `mapstructure:"writer"`
	Reader DatabaseConfig `mapstructure:"reader"`
}

// DatabaseConfig structure
type DatabaseConfig struct {
	Type            string // postgres
	Host            string
	Username        string
	Password        string
	Name            string
	SSLmode         string `mapstructure:"sslmode"`
	ApplicationName string `mapstructure:"application_name"`
	Port            int
	MaxOpenConns    int `mapstructure:"max_open_conns"`
}

// LoadConfig Load server configuration from the yaml file
func LoadConfig(viperConf *viper.Viper) Config {
	var config Config

	err := viperConf.Unmarshal(&config)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config into struct")
	}
	return config
}

// OpenConfig godoc
func OpenConfig(file string) {
	// Don't forget to read config either from cfgFile, from current directory or from home directory!
	if file != "" {
		// Use config file from the flag.
		viper.SetConfigFile(file)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigName(".config")
	viper.AddConfigPath(".")                      // First try to load the config from the current directory
	viper.AddConfigPath("$HOME")                  // Then try to load it from the HOME directory
	viper.AddConfigPath("/etc/distribution_api/") // As a last resort try to load it from /etc/
	viper.SetEnvPrefix("CFG")
	viper.AutomaticEnv()
	SetDefaultVariables(viper.GetViper())

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		log.Fatal().Err(err).Msg("Unable to read configuration file")
	}
}

// SetDefaultVariables registers the defaults of every optional setting
func SetDefaultVariables(v *viper.Viper) {
	v.SetDefault("server.api.port", 8080)
	v.SetDefault("server.monitoring.enabled", false)
	v.SetDefault("server.monitoring.port", 9090)
	v.SetDefault("distribution.store", StoreType_Postgres)
	v.SetDefault("distribution.bind_message", false)
	v.SetDefault("distribution.events", []string{"log"})
	v.SetDefault("kafka.topic", "distribution_events")
	v.SetDefault("database_cluster.writer.sslmode", "disable")
	v.SetDefault("database_cluster.writer.application_name", "distribution_api")
}
