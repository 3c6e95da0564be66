// Package orientation reads model orientation quaternions from a serial
// IMU that prints one "i,j,k,real" line per sample.
package orientation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// Parse reads "i,j,k,real" into a unit quaternion (x, y, z, w).
func Parse(line string) (quaternion.T, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 4 {
		return quaternion.T{}, fmt.Errorf("expected 4 values, got %d", len(parts))
	}
	var q quaternion.T
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return quaternion.T{}, fmt.Errorf("invalid %s value: %w", component[i], err)
		}
		q[i] = v
	}
	if q[0] == 0 && q[1] == 0 && q[2] == 0 && q[3] == 0 {
		return quaternion.T{}, fmt.Errorf("zero quaternion")
	}
	q.Normalize()
	return q, nil
}

var component = [4]string{"i", "j", "k", "real"}

// Decode parses every line of r and hands valid samples to fn. Bad lines
// are logged and skipped.
func Decode(r io.Reader, log zerolog.Logger, fn func(quaternion.T)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		q, err := Parse(line)
		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("skip sample")
			continue
		}
		fn(q)
	}
	return sc.Err()
}

type Reader struct {
	Port  string
	Baud  int
	Retry time.Duration
	Log   zerolog.Logger
}

// Run keeps the port open and decodes samples until ctx is done,
// reopening it after Retry whenever it fails or closes.
func (r *Reader) Run(ctx context.Context, fn func(quaternion.T)) error {
	retry := r.Retry
	if retry <= 0 {
		retry = 5 * time.Second
	}
	mode := &serial.Mode{BaudRate: r.Baud}
	for {
		port, err := serial.Open(r.Port, mode)
		if err != nil {
			r.Log.Warn().Err(err).Str("port", r.Port).Dur("retry", retry).Msg("open serial port failed")
		} else {
			r.Log.Info().Str("port", r.Port).Int("baud", r.Baud).Msg("serial port open")
			stop := context.AfterFunc(ctx, func() { port.Close() })
			err = Decode(port, r.Log, fn)
			stop()
			port.Close()
			if ctx.Err() == nil {
				r.Log.Warn().Err(err).Str("port", r.Port).Msg("serial port closed; reconnecting")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}
