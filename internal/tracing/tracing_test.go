package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tracingConfig struct {
	agent string
}

func (c tracingConfig) ServiceName() string   { return "expense-tracker-test" }
func (c tracingConfig) AgentHostPort() string { return c.agent }
func (c tracingConfig) Enabled() bool         { return c.agent != "" }

func Test_Init_Disabled(t *testing.T) {
	closer, err := Init(tracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
}

func Test_Init_Enabled(t *testing.T) {
	prev := opentracing.GlobalTracer()
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })

	closer, err := Init(tracingConfig{agent: "127.0.0.1:6831"})
	require.NoError(t, err)
	defer closer.Close()

	assert.NotEqual(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
}
