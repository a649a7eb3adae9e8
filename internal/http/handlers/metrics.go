// Pipeline outcome counters.
//
// The HTTP middleware measures traffic; these counters track what the
// pipeline produced. The scored/unscored split is the health signal for the
// prompt contract: a rising unscored share means the generator stopped
// emitting the mandatory score line.
package handlers

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeScored   = "scored"
	outcomeUnscored = "unscored"
	outcomeReplayed = "replayed"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"

	outcomeOK     = "ok"
	outcomeNoText = "no_text"
)

var (
	analysisOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrismart",
			Name:      "analyses_total",
			Help:      "Analyze calls by outcome (scored, unscored, replayed, rejected, failed).",
		},
		[]string{"outcome"},
	)

	scanOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrismart",
			Name:      "label_scans_total",
			Help:      "OCR label scans by outcome (ok, no_text, rejected, failed).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(analysisOutcomes, scanOutcomes)
}
