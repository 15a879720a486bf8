package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_CountsByLabel(t *testing.T) {
	r := New()
	assert.Same(t, r, New())

	before := testutil.ToFloat64(r.signals.WithLabelValues("trade_signal"))
	r.RecordSignal("trade_signal")
	r.RecordSignal("trade_signal")
	assert.Equal(t, before+2, testutil.ToFloat64(r.signals.WithLabelValues("trade_signal")))

	before = testutil.ToFloat64(r.detectorErrors.WithLabelValues("smc"))
	r.RecordDetectorError("smc")
	assert.Equal(t, before+1, testutil.ToFloat64(r.detectorErrors.WithLabelValues("smc")))
}
