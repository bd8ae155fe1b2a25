package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	ObserveOperation("claim", time.Now(), nil)
	ObserveOperation("claim", time.Now(), errors.New("rejected"))
	ObserveOperation("claim", time.Now(), errors.New("rejected"))

	assert.Equal(t, float64(1), testutil.ToFloat64(OperationsCount.WithLabelValues("claim", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(OperationsCount.WithLabelValues("claim", "error")))
}

func TestBoolGauge(t *testing.T) {
	assert.Equal(t, float64(1), BoolGauge(true))
	assert.Equal(t, float64(0), BoolGauge(false))
}

func TestLoopProfilingServerDisabled(t *testing.T) {
	assert.NoError(t, LoopProfilingServer(Config{Enabled: false}))
	ShutdownServer()
}
