// SPDX-License-Identifier: MIT
// Package: sparsecg/comm/wsnet
//
// hub.go — rank 0: accepts the other ranks and combines every collective.
//
// Contract:
//   - Exchange blocks until all Size-1 peers joined, then until each sent its
//     contribution for the current sequence number.
//   - Contributions are checked for matching sequence and Op; a mismatch
//     aborts the group with comm.ErrCollectiveMismatch.
//   - Abort is relayed to every connected peer.

package wsnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/katalvlaran/sparsecg/comm"
)

// Hub is rank 0 of a websocket group.
type Hub struct {
	cfg      Config
	log      *slog.Logger
	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader

	mu     sync.Mutex
	peers  []*peer
	joined int
	ready  chan struct{}

	seq     uint64
	state   *aborter
	closing atomic.Bool
}

// peer is one connected client rank.
type peer struct {
	rank int
	link *link
	in   chan Frame
}

var _ comm.Exchanger = (*Hub)(nil)

// Serve starts listening on cfg.Addr and accepting ranks 1..Size-1.
func Serve(cfg Config) (*Hub, error) {
	cfg = cfg.withDefaults()
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("Serve: size=%d: %w", cfg.Size, ErrConfig)
	}
	if cfg.Job == "" {
		cfg.Job = uuid.NewString()
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("Serve: listen %q: %w", cfg.Addr, err)
	}

	h := &Hub{
		cfg:   cfg,
		log:   cfg.Logger.With(slog.String("job", cfg.Job)),
		ln:    ln,
		peers: make([]*peer, cfg.Size),
		ready: make(chan struct{}),
		state: newAborter(),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.Timeout,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
	if cfg.Size == 1 {
		close(h.ready)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CollectivePath, h.handle)
	h.srv = &http.Server{Handler: mux, ReadHeaderTimeout: cfg.Timeout}
	go func() {
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.Abort(fmt.Errorf("hub server: %w", err))
		}
	}()
	h.log.Info("hub listening", slog.String("addr", h.Addr()), slog.Int("size", cfg.Size))
	return h, nil
}

// Addr returns the bound listen address (useful with port 0).
func (h *Hub) Addr() string { return h.ln.Addr().String() }

// Job returns the job token peers must present.
func (h *Hub) Job() string { return h.cfg.Job }

// Rank is always 0.
func (h *Hub) Rank() int { return 0 }

// Size returns the group size.
func (h *Hub) Size() int { return h.cfg.Size }

// Transport names this exchanger in metrics.
func (h *Hub) Transport() string { return transportName }

// Comm returns the rank-0 communicator.
func (h *Hub) Comm() *comm.Comm { return comm.New(h) }

// Err returns nil until the group is aborted.
func (h *Hub) Err() error { return h.state.err() }

// Wait blocks until every peer joined.
func (h *Hub) Wait(ctx context.Context) error {
	select {
	case <-h.ready:
		return nil
	case <-h.state.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handle(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", slog.String("remote", r.RemoteAddr), slog.String("error", err.Error()))
		return
	}
	l := &link{ws: ws, timeout: h.cfg.Timeout}

	hello, err := l.recv(true)
	if err != nil {
		h.log.Warn("hello not received", slog.String("remote", r.RemoteAddr), slog.String("error", err.Error()))
		_ = ws.Close()
		return
	}
	p, err := h.admit(hello, l)
	if err != nil {
		h.log.Warn("peer rejected", slog.String("remote", r.RemoteAddr), slog.String("error", err.Error()))
		_ = l.send(Frame{Kind: kindAbort, Error: err.Error()})
		_ = l.close()
		return
	}
	if err = l.send(Frame{Kind: kindWelcome, Job: h.cfg.Job, Rank: p.rank, Size: h.cfg.Size}); err != nil {
		h.Abort(fmt.Errorf("rank %d: welcome: %w", p.rank, err))
		return
	}
	h.log.Debug("peer joined", slog.Int("peer", p.rank), slog.String("remote", r.RemoteAddr))
	h.markJoined()
	h.read(p)
}

// admit validates a hello frame and registers the peer.
func (h *Hub) admit(f Frame, l *link) (*peer, error) {
	switch {
	case f.Kind != kindHello:
		return nil, fmt.Errorf("expected %s, got %q: %w", kindHello, f.Kind, ErrHandshake)
	case f.Job != h.cfg.Job:
		return nil, fmt.Errorf("job token mismatch: %w", ErrHandshake)
	case f.Size != h.cfg.Size:
		return nil, fmt.Errorf("peer expects size %d, group has %d: %w", f.Size, h.cfg.Size, ErrHandshake)
	case f.Rank < 1 || f.Rank >= h.cfg.Size:
		return nil, fmt.Errorf("rank %d outside [1,%d): %w", f.Rank, h.cfg.Size, ErrHandshake)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[f.Rank] != nil {
		return nil, fmt.Errorf("rank %d already joined: %w", f.Rank, ErrHandshake)
	}
	p := &peer{rank: f.Rank, link: l, in: make(chan Frame, 1)}
	h.peers[f.Rank] = p
	return p, nil
}

func (h *Hub) markJoined() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joined++
	if h.joined == h.cfg.Size-1 {
		close(h.ready)
		h.log.Info("all ranks joined", slog.Int("size", h.cfg.Size))
	}
}

// read pumps one peer's frames until the connection ends.
func (h *Hub) read(p *peer) {
	defer close(p.in)
	for {
		f, err := p.link.recv(false)
		if err != nil {
			if !h.closing.Load() && !normalClose(err) {
				h.Abort(fmt.Errorf("rank %d: %w: %w", p.rank, ErrPeerLost, err))
			}
			return
		}
		switch f.Kind {
		case kindContribute:
			select {
			case p.in <- f:
			case <-h.state.done:
				return
			}
		case kindAbort:
			h.Abort(remoteAbort(f))
			return
		default:
			h.Abort(fmt.Errorf("rank %d sent %q: %w", p.rank, f.Kind, ErrProtocol))
			return
		}
	}
}

// Exchange contributes rank 0's data and distributes every rank's contribution.
func (h *Hub) Exchange(ctx context.Context, op comm.Op, data []float64) ([][]float64, error) {
	if err := h.Wait(ctx); err != nil {
		return nil, h.fail(err)
	}
	h.seq++
	parts := make([][]float64, h.cfg.Size)
	parts[0] = slices.Clone(data)

	for r := 1; r < h.cfg.Size; r++ {
		select {
		case f, ok := <-h.peers[r].in:
			if !ok {
				return nil, h.fail(fmt.Errorf("rank %d during %s: %w", r, op, ErrPeerLost))
			}
			if f.Seq != h.seq || f.Op != op {
				return nil, h.fail(fmt.Errorf("rank %d sent %s #%d, hub is at %s #%d: %w",
					r, f.Op, f.Seq, op, h.seq, comm.ErrCollectiveMismatch))
			}
			parts[r] = f.Data
		case <-h.state.done:
			return nil, h.Err()
		case <-ctx.Done():
			return nil, h.fail(ctx.Err())
		}
	}

	res := Frame{Kind: kindResult, Seq: h.seq, Op: op, Parts: toVectors(parts)}
	for r := 1; r < h.cfg.Size; r++ {
		if err := h.peers[r].link.send(res); err != nil {
			return nil, h.fail(fmt.Errorf("rank %d: result: %w", r, err))
		}
	}
	return parts, nil
}

// fail aborts with err unless the group is already aborted.
func (h *Hub) fail(err error) error {
	if aerr := h.Err(); aerr != nil {
		return aerr
	}
	h.Abort(err)
	return err
}

// Abort terminates the group and relays the cause to every peer.
func (h *Hub) Abort(err error) {
	if !h.state.abort(err) {
		return
	}
	h.log.Warn("group aborted", slog.String("cause", h.state.cause.Error()))
	msg := Frame{Kind: kindAbort, Rank: 0, Error: h.state.cause.Error()}
	h.mu.Lock()
	peers := slices.Clone(h.peers)
	h.mu.Unlock()
	for _, p := range peers {
		if p != nil {
			_ = p.link.send(msg)
		}
	}
}

// Close ends every connection and stops the listener.
func (h *Hub) Close() error {
	h.closing.Store(true)
	h.mu.Lock()
	peers := slices.Clone(h.peers)
	h.mu.Unlock()
	for _, p := range peers {
		if p != nil {
			_ = p.link.close()
		}
	}
	return h.srv.Close()
}
