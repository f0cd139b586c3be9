package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	apperrors "fintrack/internal/errors"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(ledgerOperationsTotal.WithLabelValues("category", "create", "success"))
	RecordOperation("category", "create", nil)
	after := testutil.ToFloat64(ledgerOperationsTotal.WithLabelValues("category", "create", "success"))
	assert.Equal(t, before+1, after)

	RecordOperation("category", "update", apperrors.ErrDefaultCategoryImmutable)
	assert.Equal(t, float64(1), testutil.ToFloat64(ledgerOperationsTotal.WithLabelValues("category", "update", "forbidden")))
}

func TestObserveRequest(t *testing.T) {
	ObserveRequest("GET", "/api/v1/dashboard", 200, 5*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/dashboard", "200")))
}

func TestCounters(t *testing.T) {
	seeded := testutil.ToFloat64(defaultCategoriesSeeded)
	DefaultCategoriesSeeded(3)
	assert.Equal(t, seeded+3, testutil.ToFloat64(defaultCategoriesSeeded))

	limited := testutil.ToFloat64(rateLimitedTotal)
	RateLimited()
	assert.Equal(t, limited+1, testutil.ToFloat64(rateLimitedTotal))
}
