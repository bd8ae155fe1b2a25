package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gitlab.com/paramountdax-exchange/distribution_api/actions"
	"gitlab.com/paramountdax-exchange/distribution_api/logger"
)

// NewRouter registers every route of the distribution API
func NewRouter(a *actions.Actions) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Length", "Content-Type", "Accept", actions.CallerHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}

	r.Use(cors.New(corsConfig)) // Allow requests from anywhere
	r.Use(gin.Recovery())       // Recovery middleware recovers from any panics and writes a 500 if there was one.
	r.Use(logger.SetLogger(logger.Config{SkipPath: []string{"/ping"}}))

	// public queries
	{
		r.GET("/ping", actions.Ping)
		r.GET("/config", a.GetConfig)
		r.GET("/claims/:user", a.GetUserClaim)
		r.GET("/balances/:user", a.GetBalance)
	}

	// signed by the caller and authorized by the backend authority
	{
		r.POST("/claims", a.RequireCaller(), a.ClaimTokens)
		r.POST("/burns", a.RequireCaller(), a.BurnTokens)
	}

	admin := r.Group("/admin", a.RequireCaller())
	{
		admin.POST("/config", a.InitializeConfig)
		admin.POST("/mint", a.MintTokens)
		admin.GET("/holders", a.GetHolders)

		admin.POST("/pause", a.EmergencyPause)
		admin.POST("/unpause", a.Unpause)

		blacklist := admin.Group("/blacklist")
		{
			blacklist.GET("", a.GetBlacklist)
			blacklist.POST("", a.InitializeBlacklist)
			blacklist.POST("/:user", a.AddToBlacklist)
			blacklist.DELETE("/:user", a.RemoveFromBlacklist)
		}

		adminActions := admin.Group("/actions")
		{
			adminActions.POST("", a.RequestAdminAction)
			adminActions.DELETE("", a.CancelAdminAction)
			adminActions.POST("/execute", a.ExecuteAdminAction)
			adminActions.GET("/:admin", a.GetPendingAction)
		}
	}

	return r
}

// ListenToRequests serves the API until the server is shut down
func (srv *server) ListenToRequests() error {
	log.Info().Str("worker", "http_listen_to_requests").Str("action", "start").Str("addr", srv.HTTP.Addr).Msg("HTTP Listen to requests - started")
	defer log.Info().Str("worker", "http_listen_to_requests").Str("action", "stop").Msg("HTTP Listen to requests - stopped")

	if err := srv.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Str("section", "server").Str("action", "ListenToRequests").Msgf("Unable to listen %d port", srv.config.Server.API.Port)
		return err
	}
	return nil
}

func newHTTPServer(port int, keepAlive bool, handler http.Handler) *http.Server {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}
	httpServer.SetKeepAlivesEnabled(keepAlive)
	return httpServer
}
