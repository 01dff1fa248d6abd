package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAdvance(t *testing.T) {
	before := testutil.ToFloat64(savesTotal.WithLabelValues("manual", "written"))
	RecordSave("manual", "written")
	if got := testutil.ToFloat64(savesTotal.WithLabelValues("manual", "written")); got != before+1 {
		t.Errorf("saves counter = %v, expected %v", got, before+1)
	}

	failedBefore := testutil.ToFloat64(ingestionsTotal.WithLabelValues("folder", "error"))
	RecordIngestion("folder", errors.New("boom"))
	if got := testutil.ToFloat64(ingestionsTotal.WithLabelValues("folder", "error")); got != failedBefore+1 {
		t.Errorf("failed ingestions = %v, expected %v", got, failedBefore+1)
	}

	SetNodesTracked(12)
	if got := testutil.ToFloat64(nodesTracked); got != 12 {
		t.Errorf("gauge = %v", got)
	}
}

func TestHandlerExposesWorkspaceMetrics(t *testing.T) {
	RecordDelayedCheck(CheckStale)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "docspace_delayed_checks_total") {
		t.Error("delayed check counter not exported")
	}
}
