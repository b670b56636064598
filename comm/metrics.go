// SPDX-License-Identifier: MIT
// Package: sparsecg/comm

package comm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// collectiveDuration tracks time spent blocked in a collective, which
	// includes waiting for the slowest rank.
	collectiveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sparsecg_collective_duration_seconds",
		Help:    "Time spent in collective operations, including waiting for peers",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs to ~4s
	}, []string{"op", "transport"})

	// collectiveAborts counts group aborts requested through a Communicator.
	collectiveAborts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sparsecg_group_aborts_total",
		Help: "Total process group aborts by transport",
	}, []string{"transport"})
)
