// Package replay records the per-tick input of a match so it can be played
// back. The match is deterministic for a given seed, so the inputs alone
// reproduce the final state.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/input"
)

const (
	Magic   = "CSRP"
	Version = 1
)

// ErrBadHeader means the stream is not a replay this build can read.
var ErrBadHeader = errors.New("replay: bad header")

type Header struct {
	Magic      string        `msgpack:"magic"`
	Version    int           `msgpack:"version"`
	Settings   game.Settings `msgpack:"settings"`
	Tuning     game.Tuning   `msgpack:"tuning"`
	RecordedAt time.Time     `msgpack:"recorded_at"`
}

// NewHeader describes a match about to be recorded.
func NewHeader(t game.Tuning, s game.Settings) Header {
	return Header{
		Magic:      Magic,
		Version:    Version,
		Settings:   s,
		Tuning:     t,
		RecordedAt: time.Now().UTC(),
	}
}

// Recorder appends one frame per tick after the header.
type Recorder struct {
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	frames int
}

func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	buf := bufio.NewWriter(w)
	r := &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
	if err := r.enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	return r, nil
}

// Record appends the level state the match was stepped with.
func (r *Recorder) Record(h input.Held) error {
	if err := r.enc.Encode(&h); err != nil {
		return fmt.Errorf("write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

func (r *Recorder) Frames() int { return r.frames }

// Flush writes buffered frames to the underlying writer.
func (r *Recorder) Flush() error {
	return r.buf.Flush()
}

type Reader struct {
	Header Header
	dec    *msgpack.Decoder
	frames int
}

// NewReader reads and checks the header.
func NewReader(rd io.Reader) (*Reader, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	var h Header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: version %d", ErrBadHeader, h.Version)
	}
	if n := h.Settings.Opponents; n < 1 || n > game.MaxOpponents {
		return nil, fmt.Errorf("%w: %d opponents", ErrBadHeader, n)
	}
	return &Reader{Header: h, dec: dec}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (input.Held, error) {
	var h input.Held
	if err := r.dec.Decode(&h); err != nil {
		if errors.Is(err, io.EOF) {
			return h, io.EOF
		}
		return h, fmt.Errorf("read frame %d: %w", r.frames, err)
	}
	r.frames++
	return h, nil
}

// Run replays every frame through a fresh match built from the header and
// returns it with the number of frames applied.
func Run(r *Reader, opts ...game.Option) (*game.Match, int, error) {
	m := game.NewMatch(r.Header.Tuning, r.Header.Settings, opts...)
	var a input.Adapter
	n := 0
	for {
		h, err := r.Next()
		if errors.Is(err, io.EOF) {
			return m, n, nil
		}
		if err != nil {
			return m, n, err
		}
		m.Step(a.Sample(h))
		n++
	}
}
