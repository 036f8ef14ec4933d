package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(AICalls.WithLabelValues("extract_resume", OutcomeSuccess))
	AICalls.WithLabelValues("extract_resume", OutcomeSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AICalls.WithLabelValues("extract_resume", OutcomeSuccess)))

	before = testutil.ToFloat64(StorageQuotaFallbacks.WithLabelValues("profile"))
	StorageQuotaFallbacks.WithLabelValues("profile").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(StorageQuotaFallbacks.WithLabelValues("profile")))
}

func TestHistogramObserves(t *testing.T) {
	AICallDuration.WithLabelValues("analyze_application").Observe(1.5)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(AICallDuration), 1)
}
