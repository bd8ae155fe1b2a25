package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gitlab.com/paramountdax-exchange/distribution_api/actions"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
	"gitlab.com/paramountdax-exchange/distribution_api/service"
)

// Server interface
type Server interface {
	Listen()
}

type server struct {
	config  config.Config
	actions *actions.Actions
	service *service.Service
	ctx     context.Context
	close   context.CancelFunc
	HTTP    *http.Server
}

// NewServer constructor
func NewServer(cfg config.Config) Server {
	ctx, close := context.WithCancel(context.Background())

	dataServices := service.NewService(ctx, cfg)
	userActions := actions.NewActions(cfg, dataServices, ctx)

	// start the background jobs
	dataServices.Start()

	return &server{
		config:  cfg,
		service: dataServices,
		actions: userActions,
		ctx:     ctx,
		close:   close,
		HTTP:    newHTTPServer(cfg.Server.API.Port, cfg.Server.API.KeepAlive, NewRouter(userActions)),
	}
}

// Listen serves the API and the monitoring endpoints until a termination
// signal is received or one of the servers fails
func (srv *server) Listen() {
	g, ctx := errgroup.WithContext(srv.ctx)
	g.Go(srv.ListenToRequests)
	g.Go(func() error {
		return monitor.LoopProfilingServer(srv.config.Server.Monitoring)
	})

	srv.stopOnSignal(ctx)
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("section", "server").Msg("Server stopped with error")
	}
}

func (srv *server) stopOnSignal(ctx context.Context) {
	// listen for termination signals
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case sig := <-sigc:
		log.Info().Str("section", "server").Str("app_event", "terminate").Str("signal", sig.String()).Msg("Shutting down services")
	case <-ctx.Done():
		log.Warn().Str("section", "server").Str("app_event", "terminate").Msg("A server failed, shutting down services")
	}
	srv.closeApp(5 * time.Second)
}

func (srv *server) closeApp(timeout time.Duration) {
	// define a timeout in which the graceful shutdown procedure should happen before forcing the shutdown
	timeoutFunc := time.AfterFunc(timeout, func() {
		log.Printf("timeout %d ms has been elapsed, force exit", timeout.Milliseconds())
		os.Exit(0)
	})
	defer timeoutFunc.Stop()

	monitor.ShutdownServer()
	if err := srv.HTTP.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to shutdown HTTP server")
	}

	// close crons
	srv.service.CloseCrons()
	srv.close()
	// flush events and close the database connections
	srv.service.Close()

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("state", "complete").Msg("All workers terminated")
}
