package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AppendsProviderAttrs(t *testing.T) {
	var buf bytes.Buffer
	processed := 0
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.Int("processed", processed)}
	})
	logger := slog.New(h)

	logger.Info("first")
	processed = 7
	logger.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "processed=0")
	assert.Contains(t, lines[1], "processed=7", "attrs must be evaluated at log time")
}

func TestContextHandler_NilProvider(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), nil)

	slog.New(h).Info("plain")
	assert.Contains(t, buf.String(), "plain")
}

func TestContextHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.String("batch", "b1")}
	})

	logger := slog.New(h).With("worker", 3)
	logger.Info("job done")

	out := buf.String()
	assert.Contains(t, out, "worker=3")
	assert.Contains(t, out, "batch=b1")
}

func TestContextHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), nil)

	logger := slog.New(h).WithGroup("trial")
	logger.Info("processed", "member", "51")
	assert.Contains(t, buf.String(), "trial.member=51")

	// empty group name keeps the same handler
	same := h.WithGroup("")
	assert.Equal(t, h, same)
}
