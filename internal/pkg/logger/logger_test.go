package logger

import (
	"StreamHub/internal/api/config"
	"bytes"
	"context"
	log "log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewHandler_RemoteOnlyReceivesTracedRecords(t *testing.T) {
	var stdout, remote bytes.Buffer
	cfg := config.LogstashConfig{Index: "logstash-streamhub", Token: "secret"}
	logger := log.New(NewHandler(&stdout, &remote, cfg))

	logger.Info("startup")
	ctx := WithTraceID(context.Background(), "job-trending-1")
	logger.InfoContext(ctx, "trending recompute success", "written", 2)

	local := decodeLines(t, &stdout)
	require.Len(t, local, 2)
	assert.Equal(t, "job-trending-1", local[1][TraceIDKey])

	shipped := decodeLines(t, &remote)
	require.Len(t, shipped, 1)
	assert.Equal(t, "trending recompute success", shipped[0]["msg"])
	assert.Equal(t, "logstash-streamhub", shipped[0]["target_index"])
	assert.Equal(t, "secret", shipped[0]["log_token"])
	assert.Equal(t, "job-trending-1", shipped[0][TraceIDKey])
}

func TestNewHandler_StdoutOnly(t *testing.T) {
	var stdout bytes.Buffer
	logger := log.New(NewHandler(&stdout, nil, config.LogstashConfig{}))

	logger.With("component", "cron").InfoContext(WithTraceID(context.Background(), "t1"), "tick")

	lines := decodeLines(t, &stdout)
	require.Len(t, lines, 1)
	assert.Equal(t, "cron", lines[0]["component"])
	assert.Equal(t, "t1", lines[0][TraceIDKey])
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceIDFrom(context.Background()))
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFrom(ctx))

	id := NewTraceID("job-trending")
	assert.True(t, strings.HasPrefix(id, "job-trending-"))
	assert.Len(t, id, len("job-trending-")+36)
}

func TestFormatAccessLog(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/trending", nil)
	req = req.WithContext(WithTraceID(req.Context(), "req-1"))

	line := formatAccessLog(gin.LogFormatterParams{
		Request:    req,
		TimeStamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		StatusCode: 503,
		Latency:    15 * time.Millisecond,
		Method:     "GET",
		Path:       "/api/trending",
	}, config.LogstashConfig{Index: "logstash-streamhub"})

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "req-1", m["trace_id"])
	assert.Equal(t, "ERROR", m["level"])
	assert.Equal(t, float64(503), m["status"])
	assert.Equal(t, "logstash-streamhub", m["target_index"])
}

func TestSQLOperation(t *testing.T) {
	assert.Equal(t, "DELETE", sqlOperation("DELETE FROM `trending_videos` WHERE period = 'daily'"))
	assert.Equal(t, "SELECT", sqlOperation("  select id from videos"))
	assert.Equal(t, "Query", sqlOperation(""))
}
