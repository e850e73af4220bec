// Package device reads crossing bytes from the lap detector.
package device

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/bcdxn/lapboard/internal/domain"
)

// DefaultReadTimeout bounds a single read so the pump never blocks for long.
const DefaultReadTimeout = 100 * time.Millisecond

// ErrClosed is returned when reading from a source that has been closed.
var ErrClosed = errors.New("source closed")

// Source yields at most one byte per read. A read that times out without data returns ok=false
// and a nil error.
type Source interface {
	Poll(ctx context.Context) (b byte, ok bool, err error)
	Close() error
}

// Pump reads from src until ctx is cancelled or the source fails, handing every received byte
// to deliver one at a time. The receipt time is captured as soon as the read returns, before the
// byte is delivered. Running out of input is not an error.
func Pump(ctx context.Context, src Source, deliver func(domain.Crossing), logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		if ctx.Err() != nil {
			logger.Debug("pump stopped", "reason", ctx.Err())
			return nil
		}
		b, ok, err := src.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("pump stopped", "reason", ctx.Err())
				return nil
			}
			if errors.Is(err, io.EOF) {
				logger.Info("source exhausted")
				return nil
			}
			return errors.Wrap(err, "error reading from detector")
		}
		if !ok {
			continue
		}
		now := time.Now()
		deliver(domain.Crossing{Raw: b, At: now})
	}
}
