package device

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Reader replays a byte stream, such as a captured detector session, as a Source.
type Reader struct {
	r      *bufio.Reader
	closer io.Closer
	pace   time.Duration
}

type ReaderOption = func(r *Reader)

// WithPace makes every read wait d before returning the next byte.
func WithPace(d time.Duration) ReaderOption {
	return func(r *Reader) { r.pace = d }
}

// NewReader returns a source reading from r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		reader.closer = c
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// OpenReplay opens a captured byte stream from a file.
func OpenReplay(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open replay file %s", path)
	}
	return NewReader(f, opts...), nil
}

// Poll returns the next byte of the stream, or io.EOF once it is exhausted.
func (r *Reader) Poll(ctx context.Context) (byte, bool, error) {
	if r.pace > 0 {
		timer := time.NewTimer(r.pace)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	return b, true, nil
}

// Close closes the underlying reader when it is closable.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
