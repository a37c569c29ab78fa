// Package web3log builds the loggers components write through. They share
// the root handler, so they follow --log.format, and render wrapped errors
// with their stack traces.
package web3log

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
	zkrlog "github.com/zircuit-labs/zkr-go-common/log"
)

// New returns a logger tagged with the given module name.
func New(module string) log.Logger {
	handler := zkrlog.NewLoggableErrorHandler(log.Root().Handler())
	return &adapter{inner: slog.New(handler).With("module", module)}
}

// NewWith returns a module logger with additional context.
func NewWith(module string, ctx ...any) log.Logger {
	return New(module).With(ctx...)
}
