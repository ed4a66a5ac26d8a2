package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
}

func TestResultsSubmitted(t *testing.T) {
	before := testutil.ToFloat64(ResultsSubmitted.WithLabelValues(OutcomeError))

	ResultsSubmitted.WithLabelValues(Outcome(errors.New("boom"))).Inc()

	assert.InDelta(t, before+1, testutil.ToFloat64(ResultsSubmitted.WithLabelValues(OutcomeError)), 0)
}
