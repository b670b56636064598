// SPDX-License-Identifier: MIT
// Package: sparsecg/comm/wsnet
//
// frame.go — wire frames, connection wrapper and shared abort state.

package wsnet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/sparsecg/comm"
)

// CollectivePath is the HTTP path the hub upgrades to websocket.
const CollectivePath = "/v1/collective"

const (
	transportName  = "websocket"
	defaultTimeout = 30 * time.Second
)

// Frame kinds.
const (
	kindHello      = "hello"
	kindWelcome    = "welcome"
	kindContribute = "contribute"
	kindResult     = "result"
	kindAbort      = "abort"
)

// Frame is the single JSON message type exchanged between hub and clients.
type Frame struct {
	Kind  string   `json:"kind"`
	Job   string   `json:"job,omitempty"`
	Rank  int      `json:"rank"`
	Size  int      `json:"size,omitempty"`
	Seq   uint64   `json:"seq,omitempty"`
	Op    comm.Op  `json:"op,omitempty"`
	Data  Vector   `json:"data,omitempty"`
	Parts []Vector `json:"parts,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Vector is a float64 payload encoded as IEEE-754 bit patterns, so NaN,
// Inf and signed zeros cross the wire unchanged.
type Vector []float64

// MarshalJSON encodes v as an array of uint64 bit patterns.
func (v Vector) MarshalJSON() ([]byte, error) {
	bits := make([]uint64, len(v))
	for i, x := range v {
		bits[i] = math.Float64bits(x)
	}
	return json.Marshal(bits)
}

// UnmarshalJSON decodes an array of uint64 bit patterns.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var bits []uint64
	if err := json.Unmarshal(data, &bits); err != nil {
		return fmt.Errorf("vector: %w", err)
	}
	if bits == nil {
		*v = nil
		return nil
	}
	out := make(Vector, len(bits))
	for i, b := range bits {
		out[i] = math.Float64frombits(b)
	}
	*v = out
	return nil
}

func toVectors(parts [][]float64) []Vector {
	out := make([]Vector, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func fromVectors(parts []Vector) [][]float64 {
	out := make([][]float64, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// Config configures both ends of the star.
type Config struct {
	Addr    string        // hub listen address, or the hub address clients dial
	Size    int           // number of ranks, hub included
	Rank    int           // client rank in [1, Size); ignored by Serve
	Job     string        // shared token; Serve generates one when empty
	Timeout time.Duration // handshake and per-frame write deadline
	Logger  *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// link serialises writes on one websocket connection.
type link struct {
	ws      *websocket.Conn
	wmu     sync.Mutex
	timeout time.Duration
}

func (l *link) send(f Frame) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if err := l.ws.SetWriteDeadline(time.Now().Add(l.timeout)); err != nil {
		return err
	}
	return l.ws.WriteJSON(f)
}

// recv reads one frame, bounded by the handshake timeout when deadline is true.
func (l *link) recv(deadline bool) (Frame, error) {
	var f Frame
	if deadline {
		if err := l.ws.SetReadDeadline(time.Now().Add(l.timeout)); err != nil {
			return f, err
		}
		defer l.ws.SetReadDeadline(time.Time{})
	}
	err := l.ws.ReadJSON(&f)
	return f, err
}

// close sends a normal-closure control frame and drops the connection.
func (l *link) close() error {
	_ = l.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return l.ws.Close()
}

// normalClose reports whether err is the peer closing after its last collective.
func normalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// aborter is the sticky abort state of one endpoint.
type aborter struct {
	once  sync.Once
	done  chan struct{}
	cause error
}

func newAborter() *aborter {
	return &aborter{done: make(chan struct{})}
}

// abort records err and reports whether this call was the first one.
func (a *aborter) abort(err error) bool {
	if err == nil {
		err = errors.New("abort requested")
	}
	first := false
	a.once.Do(func() {
		a.cause = err
		close(a.done)
		first = true
	})
	return first
}

func (a *aborter) err() error {
	select {
	case <-a.done:
		return fmt.Errorf("%w: %w", comm.ErrAborted, a.cause)
	default:
		return nil
	}
}

// remoteAbort turns an abort frame into a local cause.
func remoteAbort(f Frame) error {
	return fmt.Errorf("rank %d: %s: %w", f.Rank, f.Error, ErrRemoteAbort)
}
