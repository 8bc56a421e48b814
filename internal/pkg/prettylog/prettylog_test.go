package prettylog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestEncoder_EncodeEntry(t *testing.T) {
	enc := NewEncoder(false)
	enc.AddString("component", "catalog")

	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		LoggerName: "querylog",
		Message:    "unknown query type",
	}, []zapcore.Field{zap.String("query_type", "free text"), zap.Int("n", 3)})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04 05:06:07 ⚠ [querylog] unknown query type component=catalog n=3 query_type=\"free text\"\n", buf.String())
}

func TestEncoder_ErrorBadgeAndHint(t *testing.T) {
	enc := NewEncoder(false)
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.ErrorLevel, Time: ts, Message: "failed"},
		[]zapcore.Field{zap.Error(errors.New("boom"))})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04 05:06:07  ERROR  failed error=boom\n", buf.String())

	buf, err = enc.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: ts, Message: "ready"},
		[]zapcore.Field{SuccessField()})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04 05:06:07 ✔ ready\n", buf.String())
}

func TestEncoder_CloneIsolatesFields(t *testing.T) {
	enc := NewEncoder(false)
	enc.AddString("a", "1")
	clone := enc.Clone()
	clone.AddString("b", "2")

	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Message: "m"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "b=2")
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "plain", Colorize("", "plain"))
	assert.Equal(t, "\033[31mx\033[0m", Red("x"))
}
