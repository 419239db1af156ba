package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RepeatedConstruction(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestAnswerOutcome(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, OutcomeUngraded, AnswerOutcome(nil))
	assert.Equal(t, OutcomeCorrect, AnswerOutcome(&yes))
	assert.Equal(t, OutcomeIncorrect, AnswerOutcome(&no))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(GinMiddleware(m))
	router.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.RequestCounter.WithLabelValues("/ping/:id", "204")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("/ping/:id")))
}

func TestRecordDBStats(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordDBStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3})

	assert.Equal(t, float64(4), testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("open")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("idle")))
}
