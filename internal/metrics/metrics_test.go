package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(MatchScores.WithLabelValues("fallback", "low"))
	MatchScores.WithLabelValues("fallback", "low").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MatchScores.WithLabelValues("fallback", "low")))

	before = testutil.ToFloat64(AIFailures.WithLabelValues("score", "ai_quota"))
	AIFailures.WithLabelValues("score", "ai_quota").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AIFailures.WithLabelValues("score", "ai_quota")))
}
