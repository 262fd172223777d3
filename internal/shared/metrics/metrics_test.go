package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(analysisFailed.WithLabelValues("RATE_LIMITED"))
	IncAnalysisFailed("RATE_LIMITED")
	assert.Equal(t, before+1, testutil.ToFloat64(analysisFailed.WithLabelValues("RATE_LIMITED")))

	started := testutil.ToFloat64(analysisStarted)
	IncAnalysisStarted()
	assert.Equal(t, started+1, testutil.ToFloat64(analysisStarted))

	received := testutil.ToFloat64(workerJobs.WithLabelValues(JobReceived))
	IncWorkerJob(JobReceived)
	assert.Equal(t, received+1, testutil.ToFloat64(workerJobs.WithLabelValues(JobReceived)))
}

func TestHandlerExposesSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncAnalysisCompleted()
	ObserveAnalysisDuration(1500 * time.Millisecond)
	ObserveNarrative("gemini", "ok", -time.Second)

	router := gin.New()
	router.GET("/metrics", Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, name := range []string{"analysis_completed_total", "analysis_duration_seconds_bucket", "narrative_request_duration_seconds_count"} {
		assert.True(t, strings.Contains(body, name), "missing %s", name)
	}
}
