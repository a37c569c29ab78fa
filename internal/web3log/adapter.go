package web3log

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	zkrlog "github.com/zircuit-labs/zkr-go-common/log"
)

// adapter implements log.Logger on top of a *slog.Logger.
type adapter struct {
	inner *slog.Logger
}

var _ log.Logger = (*adapter)(nil)

// errorAttrs replaces every error valued pair whose key starts with "err"
// by zkrlog.ErrAttr, which carries the error detail.
func errorAttrs(ctx []any) []any {
	if len(ctx) < 2 {
		return ctx
	}
	out := make([]any, 0, len(ctx))
	for i := 0; i < len(ctx); i++ {
		if i+1 == len(ctx) {
			out = append(out, ctx[i])
			break
		}
		key, value := ctx[i], ctx[i+1]
		i++
		if k, ok := key.(string); ok && strings.HasPrefix(strings.ToLower(k), "err") {
			if err, ok := value.(error); ok && err != nil {
				out = append(out, zkrlog.ErrAttr(err))
				continue
			}
		}
		out = append(out, key, value)
	}
	return out
}

func (a *adapter) With(ctx ...any) log.Logger {
	return &adapter{inner: a.inner.With(ctx...)}
}

func (a *adapter) New(ctx ...any) log.Logger {
	return a.With(ctx...)
}

func (a *adapter) Log(level slog.Level, msg string, ctx ...any) {
	a.Write(level, msg, ctx...)
}

func (a *adapter) Trace(msg string, ctx ...any) { a.Write(log.LevelTrace, msg, ctx...) }
func (a *adapter) Debug(msg string, ctx ...any) { a.Write(slog.LevelDebug, msg, ctx...) }
func (a *adapter) Info(msg string, ctx ...any)  { a.Write(slog.LevelInfo, msg, ctx...) }
func (a *adapter) Warn(msg string, ctx ...any)  { a.Write(slog.LevelWarn, msg, ctx...) }
func (a *adapter) Error(msg string, ctx ...any) { a.Write(slog.LevelError, msg, ctx...) }

// Crit logs at the critical level and exits.
func (a *adapter) Crit(msg string, ctx ...any) {
	a.Write(log.LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (a *adapter) Write(level slog.Level, msg string, attrs ...any) {
	if !a.inner.Enabled(context.Background(), level) {
		return
	}
	a.inner.Log(context.Background(), level, msg, errorAttrs(attrs)...)
}

func (a *adapter) Enabled(ctx context.Context, level slog.Level) bool {
	return a.inner.Enabled(ctx, level)
}

func (a *adapter) Handler() slog.Handler {
	return a.inner.Handler()
}
