package logger

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/monitor"
)

type TimeContext string

const (
	TimelogsKey TimeContext = "_timelogs"
)

// CallerKey is where the caller middleware stores the identity of the request signer
const CallerKey = "caller"

type TimeLog struct {
	Key   string
	Value time.Time
}

// Config for logger
type Config struct {
	Logger *zerolog.Logger
	// UTC a boolean stating whether to use UTC time zone or local.
	UTC            bool
	SkipPath       []string
	SkipPathRegexp *regexp.Regexp
}

// GetLogger from gin context
func GetLogger(c *gin.Context) zerolog.Logger {
	if logger, ok := c.Get("_log"); ok {
		return logger.(zerolog.Logger)
	}
	return log.Logger
}

// LogTimestamp godoc
func LogTimestamp(c context.Context, key string, t time.Time) {
	if v := c.Value(TimelogsKey); v != nil {
		timelogs := v.(*[]TimeLog)
		*timelogs = append(*timelogs, TimeLog{Key: key, Value: t})
	}
}

// GetTimestamps godoc
func GetTimestamps(c context.Context) []TimeLog {
	if v := c.Value(TimelogsKey); v != nil {
		return *v.(*[]TimeLog)
	}
	return []TimeLog{}
}

// TimeContextOf returns the timing context of a mutating request, if any
func TimeContextOf(c *gin.Context) context.Context {
	if v, ok := c.Get("_timecontext"); ok {
		return v.(context.Context)
	}
	return context.Background()
}

// SetLogger initializes the logging middleware.
func SetLogger(config ...Config) gin.HandlerFunc {
	var newConfig Config
	if len(config) > 0 {
		newConfig = config[0]
	}
	var skip map[string]struct{}
	if length := len(newConfig.SkipPath); length > 0 {
		skip = make(map[string]struct{}, length)
		for _, path := range newConfig.SkipPath {
			skip[path] = struct{}{}
		}
	}

	var sublog zerolog.Logger
	if newConfig.Logger == nil {
		sublog = log.Logger
	} else {
		sublog = *newConfig.Logger
	}

	return func(c *gin.Context) {
		var timeCtx context.Context

		// get full url path for logs
		path := c.Request.URL.Path
		fullPath := path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			fullPath = path + "?" + raw
		}

		track := true
		// every mutating request goes through the engine lock
		watch := c.Request.Method != http.MethodGet

		if _, ok := skip[path]; ok {
			track = false
		}

		if track &&
			newConfig.SkipPathRegexp != nil &&
			newConfig.SkipPathRegexp.MatchString(path) {
			track = false
		}

		id := xid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		reqlogger := sublog.With().
			Str("request_id", id).
			Logger()
		c.Set("_log", reqlogger)

		if watch {
			monitor.APIRequestQueue.WithLabelValues(c.Request.Method).Inc()
			timelogs := make([]TimeLog, 0, 4)
			timeCtx = context.WithValue(context.Background(), TimelogsKey, &timelogs)
			c.Set("_timecontext", timeCtx)
			LogTimestamp(timeCtx, "start", time.Now())
		}

		c.Next()

		if watch {
			monitor.APIRequestQueue.WithLabelValues(c.Request.Method).Dec()
			LogTimestamp(timeCtx, "finish", time.Now())
		}

		if track && c.Writer.Status() >= http.StatusBadRequest {
			msg := "Request"
			if len(c.Errors) > 0 {
				msg = c.Errors.String()
			}

			timeDict := zerolog.Dict()
			if timeCtx != nil {
				timestamps := GetTimestamps(timeCtx)
				for i := range timestamps {
					timeDict.Dur(timestamps[i].Key, timestamps[i].Value.Sub(timestamps[0].Value))
				}
			}

			dumplogger := reqlogger.With().
				Str("method", c.Request.Method).
				Str("path", fullPath).
				Str("ip", c.ClientIP()).
				Str("user-agent", c.Request.UserAgent()).
				Int("status", c.Writer.Status()).
				Dict("latencies", timeDict).
				Logger()

			if val, ok := c.Get(CallerKey); ok {
				dumplogger = dumplogger.With().Str("caller", val.(model.Identity).String()).Logger()
			}

			switch {
			case c.Writer.Status() >= http.StatusBadRequest && c.Writer.Status() < http.StatusInternalServerError:
				dumplogger.Warn().Msg(msg)
			default:
				dumplogger.Error().Msg(msg)
			}
		}
	}
}
