// SPDX-License-Identifier: MIT
// Package: sparsecg/comm/wsnet

package wsnet

import "errors"

var (
	// ErrHandshake indicates a rejected or malformed hello/welcome exchange.
	ErrHandshake = errors.New("wsnet: handshake failed")

	// ErrPeerLost indicates a connection that ended while the group still needed it.
	ErrPeerLost = errors.New("wsnet: peer connection lost")

	// ErrRemoteAbort indicates an abort raised on another rank.
	ErrRemoteAbort = errors.New("wsnet: remote rank aborted")

	// ErrProtocol indicates an unexpected frame.
	ErrProtocol = errors.New("wsnet: protocol violation")

	// ErrConfig indicates an unusable Config.
	ErrConfig = errors.New("wsnet: invalid config")
)
