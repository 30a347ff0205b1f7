package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Fatal("FromContext must never return nil")
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	attached := slog.New(slog.NewJSONHandler(&buf, nil)).With(slog.String("trace_id", "abc123"))

	ctx := WithContext(context.Background(), attached)
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "abc123") {
		t.Errorf("Expected attached logger to carry trace_id, got %q", buf.String())
	}
}

func TestFromContextOrDefault(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	// No logger in context: fallback wins.
	FromContextOrDefault(context.Background(), fallback).Info("fallback used")
	if !strings.Contains(buf.String(), "fallback used") {
		t.Errorf("Expected fallback logger to be used, got %q", buf.String())
	}

	// Logger in context: context wins over fallback.
	var ctxBuf bytes.Buffer
	attached := slog.New(slog.NewJSONHandler(&ctxBuf, nil))
	ctx := WithContext(context.Background(), attached)
	FromContextOrDefault(ctx, fallback).Info("context used")
	if !strings.Contains(ctxBuf.String(), "context used") {
		t.Errorf("Expected context logger to win, got %q", ctxBuf.String())
	}
}
