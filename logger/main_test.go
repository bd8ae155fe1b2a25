package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func timelogKeys(logs []TimeLog) []string {
	keys := make([]string, 0, len(logs))
	for _, l := range logs {
		keys = append(keys, l.Key)
	}
	return keys
}

func TestTimeContextOf(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen []string
	r := gin.New()
	r.Use(SetLogger())
	handler := func(c *gin.Context) {
		timeCtx := TimeContextOf(c)
		LogTimestamp(timeCtx, "engine", time.Now())
		seen = timelogKeys(GetTimestamps(timeCtx))
		c.Status(http.StatusOK)
	}
	r.POST("/claims", handler)
	r.GET("/config", handler)

	t.Run("mutating requests collect the handler timestamps", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/claims", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"start", "engine"}, seen)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("reads are not timed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, seen)
	})
}
