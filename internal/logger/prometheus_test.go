package logger

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusHook(t *testing.T) {
	hook := NewPrometheusHook("test")
	assert.Same(t, hook.counter, NewPrometheusHook("other").counter)

	before := testutil.ToFloat64(hook.counter.WithLabelValues("warn"))

	l := zerolog.New(io.Discard).Hook(hook)
	l.Warn().Msg("first")
	l.Warn().Msg("second")
	l.Log().Msg("no level")

	assert.InDelta(t, before+2, testutil.ToFloat64(hook.counter.WithLabelValues("warn")), 0)
}
