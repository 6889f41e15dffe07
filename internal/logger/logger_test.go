package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevelAndService(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", ServiceName: "foodgram"}, &buf)

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "foodgram", entry[FieldService])
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))

	var buf bytes.Buffer
	child := zerolog.New(&buf).With().Str(FieldRequestID, "abc").Logger()
	ctx := WithLogger(context.Background(), child)

	Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zerolog.Disabled, parseLevel("off"))
}

func TestGlobalLoggerIsShared(t *testing.T) {
	saved := global
	t.Cleanup(func() { global = saved })

	var buf bytes.Buffer
	global = zerolog.New(&buf)

	L().Info().Str("component", "db").Msg("connected")
	Ctx(context.Background()).Warn().Msg("fallback")

	assert.Same(t, L(), Ctx(context.Background()))
	assert.Contains(t, buf.String(), `"component":"db"`)
	assert.Contains(t, buf.String(), `"message":"fallback"`)
}
