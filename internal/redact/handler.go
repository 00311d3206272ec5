package redact

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Handler wraps a slog.Handler, redacting messages and attributes.
type Handler struct {
	handler slog.Handler
	fields  []string
	masked  map[string]bool
}

// NewHandler wraps h. Messages are filtered with PIIFields; attributes whose
// key is a PII or secret field are replaced with Redaction.
func NewHandler(h slog.Handler) *Handler {
	masked := make(map[string]bool, len(PIIFields)+len(SecretFields))
	for _, f := range PIIFields {
		masked[f] = true
	}
	for _, f := range SecretFields {
		masked[f] = true
	}
	return &Handler{
		handler: h,
		fields:  PIIFields,
		masked:  masked,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, FilterDatum(h.fields, Redaction, r.Message, Separator), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &Handler{
		handler: h.handler.WithAttrs(redacted),
		fields:  h.fields,
		masked:  h.masked,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		handler: h.handler.WithGroup(name),
		fields:  h.fields,
		masked:  h.masked,
	}
}

func (h *Handler) redactAttr(a slog.Attr) slog.Attr {
	if h.masked[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redaction)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = h.redactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindString:
		return slog.String(a.Key, FilterDatum(h.fields, Redaction, v.String(), Separator))
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger writing to w (stderr if nil) behind the
// redacting handler.
func NewLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	base := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewHandler(base))
}

// SetDefault installs NewLogger as the process-wide logger.
func SetDefault(level string) *slog.Logger {
	logger := NewLogger(nil, level)
	slog.SetDefault(logger)
	return logger
}
