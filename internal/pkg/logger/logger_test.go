package logger

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestFromContextReturnsAttachedLogger(t *testing.T) {
	attached := zerolog.New(io.Discard).With().Str("component", "test").Logger()
	ctx := WithContext(context.Background(), &attached)

	if got := FromContext(ctx); got != &attached {
		t.Fatal("expected the logger attached to the context")
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	if got := FromContext(context.Background()); got != &log.Logger {
		t.Fatal("expected the global logger when none is attached")
	}
}
