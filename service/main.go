package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gitlab.com/paramountdax-exchange/distribution_api/crons"
	"gitlab.com/paramountdax-exchange/distribution_api/ledger"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/net/kafka"
	"gitlab.com/paramountdax-exchange/distribution_api/queries"
	"gitlab.com/paramountdax-exchange/distribution_api/service/audit"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

type Service struct {
	ctx      context.Context
	cfg      config.Config
	repo     *queries.Repo
	engine   *distribution.Engine
	ledger   *ledger.Ledger
	producer *kafka.KafkaProducer
}

// NewService connects the configured store and event sinks and restores the
// distribution state. Any failure is fatal.
func NewService(ctx context.Context, cfg config.Config) *Service {
	authority, err := model.ParseIdentity(cfg.Distribution.BackendAuthority)
	if err != nil {
		log.Fatal().Err(err).Str("section", "service").Msg("Invalid backend authority")
		return nil
	}

	var repo *queries.Repo
	var store distribution.Store
	switch cfg.Distribution.Store {
	case config.StoreType_Memory:
		log.Warn().Str("section", "service").Msg("Using the in-memory store, state is lost on restart")
		store = distribution.NewMemoryStore(nil)
	default:
		repo = queries.InitRepo(cfg.DatabaseCluster)
		store = repo
	}

	sinks := audit.Multi{}
	if cfg.Distribution.HasEventSink("log") {
		sinks = append(sinks, audit.LogSink{})
	}
	var producer *kafka.KafkaProducer
	if cfg.Distribution.HasEventSink("kafka") {
		producer = kafka.NewKafkaProducer(cfg.Kafka.Writer, cfg.Kafka.Brokers, cfg.Kafka.UseTLS, cfg.Kafka.Topic)
		sinks = append(sinks, audit.NewKafkaSink(producer))
	}

	l := ledger.New()
	engine := distribution.New(l, distribution.Options{
		Store:            store,
		Events:           sinks,
		Verifier:         distribution.HostVerifier{BindMessage: cfg.Distribution.BindMessage},
		BackendAuthority: authority,
	})
	s, err := NewServiceWithEngine(ctx, cfg, repo, engine, l)
	if err != nil {
		log.Fatal().Err(err).Str("section", "service").Msg("Unable to start distribution service")
		return nil
	}
	s.producer = producer
	return s
}

// NewServiceWithEngine restores the state of an engine built by the caller and runs
// the bootstrap. repo may be nil when the engine does not persist to postgres.
func NewServiceWithEngine(ctx context.Context, cfg config.Config, repo *queries.Repo, engine *distribution.Engine, l *ledger.Ledger) (*Service, error) {
	s := &Service{
		ctx:    ctx,
		cfg:    cfg,
		repo:   repo,
		engine: engine,
		ledger: l,
	}
	if err := engine.Load(ctx); err != nil {
		return nil, err
	}
	if err := s.bootstrap(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// bootstrap initializes the configuration and the blacklist of an empty store
func (s *Service) bootstrap(ctx context.Context) error {
	boot := s.cfg.Distribution.Bootstrap
	if !boot.Enabled {
		return nil
	}
	admin, err := model.ParseIdentity(boot.Admin)
	if err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}
	if _, ok := s.engine.Config(); !ok {
		asset, err := model.ParseIdentity(boot.AcceptedAsset)
		if err != nil {
			return errors.Wrap(err, "bootstrap accepted asset")
		}
		if err := s.engine.InitializeConfig(ctx, admin, asset, boot.MaxClaimPerUser, boot.TotalSupplyLimit); err != nil {
			return errors.Wrap(err, "bootstrap configuration")
		}
	}
	if _, ok := s.engine.Blacklist(); !ok && boot.Blacklist {
		cfg, _ := s.engine.Config()
		if cfg.Admin != admin {
			log.Warn().Str("section", "service").Str("admin", cfg.Admin.String()).
				Msg("Bootstrap admin is no longer the administrator, skipping blacklist")
			return nil
		}
		if err := s.engine.InitializeBlacklist(ctx, admin); err != nil {
			return errors.Wrap(err, "bootstrap blacklist")
		}
	}
	return nil
}

// Start runs the background jobs
func (s *Service) Start() {
	log.Debug().Str("section", "service").Str("action", "crons:start").Msg("Starting Cron service")
	crons.Start(s.cfg.Crons, s.engine, s.repo)
}

// GetRepo returns the database repository, nil with the in-memory store
func (s *Service) GetRepo() *queries.Repo {
	return s.repo
}

// Engine returns the policy engine
func (s *Service) Engine() *distribution.Engine {
	return s.engine
}

// CloseCrons stops the background jobs
func (s *Service) CloseCrons() {
	crons.Close()
}

// Close flushes the event stream and closes the database connections
func (s *Service) Close() {
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			log.Error().Err(err).Str("section", "service").Msg("Unable to close kafka producer")
		}
	}
	if s.repo != nil {
		queries.Close()
	}
}

// observe is deferred by every operation with a pointer to its named error result
func observe(operation string, start time.Time, errp *error) {
	err := *errp
	monitor.ObserveOperation(operation, start, err)
	if err != nil {
		code, _ := distribution.CodeOf(err)
		log.Debug().Err(err).Str("section", "service").Str("operation", operation).
			Str("code", code.String()).Msg("Operation rejected")
	}
}
