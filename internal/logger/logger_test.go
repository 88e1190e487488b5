package logger

import (
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		l := New("production")
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
		if l.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("production logger should not log at debug level")
		}
	})

	t.Run("development", func(t *testing.T) {
		l := New("development")
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
		if !l.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("development logger should log at debug level")
		}
		// must not panic with attrs and groups
		l.With("provider", "openai").WithGroup("draft").Info("saved", "id", "abc")
	})
}

type mockSpan struct {
	trace.Span
	sc trace.SpanContext
}

func (s mockSpan) SpanContext() trace.SpanContext {
	return s.sc
}

func TestWithTraceContext(t *testing.T) {
	t.Run("valid span", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
		spanID, _ := trace.SpanIDFromHex("0102030405060708")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		})
		ctx := trace.ContextWithSpan(context.Background(), mockSpan{sc: sc})

		attr := WithTraceContext(ctx)
		if attr.Key != "trace" {
			t.Errorf("expected key 'trace', got %s", attr.Key)
		}

		group := attr.Value.Group()
		if len(group) != 2 {
			t.Errorf("expected 2 attributes in group, got %d", len(group))
		}
	})

	t.Run("invalid span", func(t *testing.T) {
		attr := WithTraceContext(context.Background())
		if !attr.Equal(slog.Attr{}) {
			t.Errorf("expected empty attribute for invalid span, got %+v", attr)
		}
	})
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  log.Severity
	}{
		{slog.LevelDebug, log.SeverityDebug},
		{slog.LevelInfo, log.SeverityInfo},
		{slog.LevelWarn, log.SeverityWarn},
		{slog.LevelError, log.SeverityError},
	}

	for _, tt := range tests {
		if got := severity(tt.level); got != tt.want {
			t.Errorf("severity(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestToOTelValue(t *testing.T) {
	if v := toOTelValue(slog.IntValue(3)); v.AsInt64() != 3 {
		t.Errorf("expected int 3, got %v", v)
	}
	if v := toOTelValue(slog.StringValue("x")); v.AsString() != "x" {
		t.Errorf("expected string x, got %v", v)
	}
	if v := toOTelValue(slog.GroupValue(slog.String("a", "b"))); v.Kind() != log.KindMap {
		t.Errorf("expected map kind for group, got %v", v.Kind())
	}
}
