package zep

import (
	"fmt"
	"hash/fnv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zep_client",
			Name:      "messages_enqueued_total",
			Help:      "Memory writes accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	// Terminal async failures are counted without a shard label: by the
	// time a job has exhausted its retries the executor no longer knows
	// which session it belonged to.
	messagesFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zep_client",
			Name:      "messages_enqueue_failures_total",
			Help:      "Memory writes whose async job returned error after retries.",
		},
	)
)

// shardLabel hashes sessionID to a stable small cardinality label (0-31).
func shardLabel(sessionID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return fmt.Sprintf("%d", h.Sum32()%32)
}
