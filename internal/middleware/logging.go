package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// logCtxKey はコンテキストにロガーを格納するためのキーです。
type logCtxKey struct{}

// maxLoggedBody を超えるボディはデバッグログで切り詰める
const maxLoggedBody = 4 << 10

// sensitiveHeaders はログ出力時に値をマスキングするヘッダー名のリストです (小文字で定義)。
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
	"x-csrf-token":  true,
}

// responseLogger は http.ResponseWriter をラップし、ステータスコードとレスポンスボディを記録します。
type responseLogger struct {
	http.ResponseWriter
	statusCode int
	bytesOut   int
	body       *bytes.Buffer
}

func newResponseLogger(w http.ResponseWriter, captureBody bool) *responseLogger {
	rl := &responseLogger{ResponseWriter: w, statusCode: http.StatusOK}
	if captureBody {
		rl.body = new(bytes.Buffer)
	}
	return rl
}

func (rl *responseLogger) WriteHeader(statusCode int) {
	rl.statusCode = statusCode
	rl.ResponseWriter.WriteHeader(statusCode)
}

func (rl *responseLogger) Write(b []byte) (int, error) {
	if rl.body != nil && rl.body.Len() < maxLoggedBody {
		rl.body.Write(b[:min(len(b), maxLoggedBody-rl.body.Len())])
	}
	n, err := rl.ResponseWriter.Write(b)
	rl.bytesOut += n
	return n, err
}

// LoggingMiddleware はリクエスト/レスポンスのログ出力を一元管理するミドルウェアです。
// req_id 付きのロガーをコンテキストに格納する (GetLogger で取り出す)。
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With("req_id", middleware.GetReqID(r.Context()))
			// 後段 (認証など) で属性を追加できるようにポインタで持つ
			holder := &loggerHolder{logger: requestLogger}
			r = r.WithContext(context.WithValue(r.Context(), logCtxKey{}, holder))

			requestLogger.Info("Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			debug := logger.Enabled(r.Context(), slog.LevelDebug)
			var reqBodyBytes []byte
			if debug && r.Body != nil {
				reqBodyBytes, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
			}

			rl := newResponseLogger(w, debug)
			next.ServeHTTP(rl, r)

			latency := time.Since(startTime)
			logLevel := slog.LevelInfo
			if rl.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if rl.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			finalLogger := holder.get()
			finalLogger.Log(r.Context(), logLevel, "Request completed",
				"status", rl.statusCode,
				"latency_ms", float64(latency.Nanoseconds())/1e6,
				"bytes_out", rl.bytesOut,
			)

			if debug {
				finalLogger.Debug("Request detail",
					"headers", formatHeaders(r.Header),
					"body", truncate(reqBodyBytes),
				)
				finalLogger.Debug("Response detail",
					"status", rl.statusCode,
					"headers", formatHeaders(rl.Header()),
					"body", rl.body.String(),
				)
			}
		})
	}
}

type loggerHolder struct {
	logger *slog.Logger
}

func (h *loggerHolder) get() *slog.Logger {
	return h.logger
}

// GetLogger はコンテキストから slog.Logger を取得します。
func GetLogger(ctx context.Context) *slog.Logger {
	if holder, ok := ctx.Value(logCtxKey{}).(*loggerHolder); ok && holder.logger != nil {
		return holder.logger
	}
	return slog.Default()
}

// AddLogAttrs はリクエストスコープのロガーに属性を追加します。
// LoggingMiddleware の外では何もしない。
func AddLogAttrs(ctx context.Context, args ...any) {
	if holder, ok := ctx.Value(logCtxKey{}).(*loggerHolder); ok && holder.logger != nil {
		holder.logger = holder.logger.With(args...)
	}
}

// WithLogger は logger を格納したコンテキストを返します (バックグラウンドジョブ用)。
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, &loggerHolder{logger: logger})
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

// formatHeaders はヘッダー情報をログ出力用に整形・マスキングするヘルパー関数
func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
		} else {
			result[key] = strings.Join(values, ", ")
		}
	}
	return result
}
