package blurb

import (
	"context"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledWithoutKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New("", logger)

	assert.False(t, g.Enabled())

	_, err := g.Generate(context.Background(), "Batman", 1989)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestEnabledWithKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New("sk-test", logger)

	assert.True(t, g.Enabled())
}
