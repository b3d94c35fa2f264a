package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/projects", "200"))

	RecordHTTPRequest("GET", "/projects", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/projects", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordReconcile(t *testing.T) {
	beforeCreate := testutil.ToFloat64(ReconcileOperations.WithLabelValues("technologies", "create"))
	beforeDelete := testutil.ToFloat64(ReconcileOperations.WithLabelValues("technologies", "delete"))

	RecordReconcile("technologies", 1, 2, 0)

	assert.Equal(t, beforeCreate+2, testutil.ToFloat64(ReconcileOperations.WithLabelValues("technologies", "create")))
	assert.Equal(t, beforeDelete+1, testutil.ToFloat64(ReconcileOperations.WithLabelValues("technologies", "delete")))
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))

	RecordLogin("failure")

	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("failure")))
}
