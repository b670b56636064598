// SPDX-License-Identifier: MIT
// Package: sparsecg/comm/wsnet
//
// client.go — ranks 1..Size-1: one connection to the hub.

package wsnet

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/sparsecg/comm"
)

const dialRetry = 200 * time.Millisecond

// Client is a non-root rank of a websocket group.
type Client struct {
	cfg     Config
	log     *slog.Logger
	link    *link
	in      chan Frame
	seq     uint64
	state   *aborter
	closing atomic.Bool
}

var _ comm.Exchanger = (*Client)(nil)

// Dial connects to the hub at cfg.Addr and completes the handshake. The hub
// may not be listening yet: connection attempts are retried until cfg.Timeout
// elapses or ctx is done.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if cfg.Size < 2 || cfg.Rank < 1 || cfg.Rank >= cfg.Size {
		return nil, fmt.Errorf("Dial: rank %d of size %d: %w", cfg.Rank, cfg.Size, ErrConfig)
	}
	u := url.URL{Scheme: "ws", Host: cfg.Addr, Path: CollectivePath}
	log := cfg.Logger.With(slog.Int("rank", cfg.Rank))

	ws, err := dialRetrying(ctx, u.String(), cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("Dial %s: %w", u.String(), err)
	}
	l := &link{ws: ws, timeout: cfg.Timeout}

	if err = l.send(Frame{Kind: kindHello, Job: cfg.Job, Rank: cfg.Rank, Size: cfg.Size}); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("Dial: hello: %w", err)
	}
	w, err := l.recv(true)
	if err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("Dial: welcome: %w: %w", ErrHandshake, err)
	}
	if w.Kind == kindAbort {
		_ = ws.Close()
		return nil, fmt.Errorf("Dial: rejected: %s: %w", w.Error, ErrHandshake)
	}
	if w.Kind != kindWelcome || w.Size != cfg.Size || w.Rank != cfg.Rank {
		_ = ws.Close()
		return nil, fmt.Errorf("Dial: unexpected %q frame: %w", w.Kind, ErrHandshake)
	}
	log.Debug("joined group", slog.String("hub", cfg.Addr), slog.Int("size", cfg.Size))

	c := &Client{
		cfg:   cfg,
		log:   log,
		link:  l,
		in:    make(chan Frame, 1),
		state: newAborter(),
	}
	go c.read()
	return c, nil
}

func dialRetrying(ctx context.Context, target string, timeout time.Duration) (*websocket.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	for {
		ws, _, err := dialer.DialContext(ctx, target, nil)
		if err == nil {
			return ws, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-time.After(dialRetry):
		}
	}
}

// Rank returns this client's rank.
func (c *Client) Rank() int { return c.cfg.Rank }

// Size returns the group size.
func (c *Client) Size() int { return c.cfg.Size }

// Transport names this exchanger in metrics.
func (c *Client) Transport() string { return transportName }

// Comm returns this rank's communicator.
func (c *Client) Comm() *comm.Comm { return comm.New(c) }

// Err returns nil until the group is aborted.
func (c *Client) Err() error { return c.state.err() }

func (c *Client) read() {
	defer close(c.in)
	for {
		f, err := c.link.recv(false)
		if err != nil {
			if !c.closing.Load() && !normalClose(err) {
				c.state.abort(fmt.Errorf("hub: %w: %w", ErrPeerLost, err))
			}
			return
		}
		switch f.Kind {
		case kindResult:
			select {
			case c.in <- f:
			case <-c.state.done:
				return
			}
		case kindAbort:
			if c.state.abort(remoteAbort(f)) {
				c.log.Warn("group aborted by peer", slog.String("cause", f.Error))
			}
		default:
			c.Abort(fmt.Errorf("hub sent %q: %w", f.Kind, ErrProtocol))
		}
	}
}

// Exchange sends this rank's contribution and waits for the combined result.
func (c *Client) Exchange(ctx context.Context, op comm.Op, data []float64) ([][]float64, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	c.seq++
	if err := c.link.send(Frame{Kind: kindContribute, Rank: c.cfg.Rank, Seq: c.seq, Op: op, Data: data}); err != nil {
		return nil, c.fail(fmt.Errorf("contribute: %w", err))
	}
	select {
	case f, ok := <-c.in:
		if !ok {
			if err := c.Err(); err != nil {
				return nil, err
			}
			return nil, c.fail(fmt.Errorf("hub during %s: %w", op, ErrPeerLost))
		}
		if f.Seq != c.seq || f.Op != op {
			return nil, c.fail(fmt.Errorf("hub answered %s #%d to %s #%d: %w",
				f.Op, f.Seq, op, c.seq, comm.ErrCollectiveMismatch))
		}
		return fromVectors(f.Parts), nil
	case <-c.state.done:
		return nil, c.Err()
	case <-ctx.Done():
		return nil, c.fail(ctx.Err())
	}
}

func (c *Client) fail(err error) error {
	if aerr := c.Err(); aerr != nil {
		return aerr
	}
	c.Abort(err)
	return err
}

// Abort terminates the group: the hub relays the cause to every other rank.
func (c *Client) Abort(err error) {
	if !c.state.abort(err) {
		return
	}
	c.log.Warn("group aborted", slog.String("cause", c.state.cause.Error()))
	_ = c.link.send(Frame{Kind: kindAbort, Rank: c.cfg.Rank, Error: c.state.cause.Error()})
}

// Close ends the connection with a normal closure.
func (c *Client) Close() error {
	c.closing.Store(true)
	return c.link.close()
}
