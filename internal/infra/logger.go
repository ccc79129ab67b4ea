package infra

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"prime-cipher/config"
)

// TraceHandler はスパン情報をログレコードに付与するslogハンドラ。
type TraceHandler struct {
	next      slog.Handler
	projectID string
}

// NewTraceHandler は next をラップしたTraceHandlerを生成する。
func NewTraceHandler(next slog.Handler, projectID string) *TraceHandler {
	return &TraceHandler{next: next, projectID: projectID}
}

func (h *TraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle は有効なスパンがあればtrace/spanIdを付与してから委譲する。
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return h.next.Handle(ctx, r)
	}

	traceID := sc.TraceID().String()
	spanID := sc.SpanID().String()
	r.AddAttrs(
		slog.String("trace", traceID),
		slog.String("spanId", spanID),
		slog.Bool("traceSampled", sc.IsSampled()),
	)
	// Cloud Logging はこの2フィールドでトレースと紐付ける
	if h.projectID != "" {
		r.AddAttrs(
			slog.String("logging.googleapis.com/trace", "projects/"+h.projectID+"/traces/"+traceID),
			slog.String("logging.googleapis.com/spanId", spanID),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{next: h.next.WithAttrs(attrs), projectID: h.projectID}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{next: h.next.WithGroup(name), projectID: h.projectID}
}

// ParseLevel はLOG_LEVELの値をslog.Levelに変換する。未知の値はINFO。
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger は w にJSONを書き出すロガーを生成する。
// 標準出力はデモの出力に使うため、通常は os.Stderr を渡す。
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)})
	if cfg.OtelEnabled {
		h = NewTraceHandler(h, cfg.GoogleCloudProject)
	}
	return slog.New(h)
}

// SetupLogger は NewLogger の結果をデフォルトロガーに設定する。
func SetupLogger(w io.Writer, cfg *config.Config) {
	slog.SetDefault(NewLogger(w, cfg))
}
