package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestPrometheusMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/api/cart/items/:variantId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := HttpRequestsTotal.WithLabelValues(http.MethodGet, "/api/cart/items/:variantId", "204")
	before := counterValue(t, counter)

	for _, id := range []string{"1", "2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cart/items/"+id, nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := counterValue(t, counter) - before; got != 2 {
		t.Errorf("expected 2 requests on the route template, got %v", got)
	}
	if got := counterValue(t, HttpRequestsTotal.WithLabelValues(http.MethodGet, "undefined", "404")); got < 1 {
		t.Errorf("unmatched paths should be counted as undefined, got %v", got)
	}
}

func TestInitMetricsRegistersExtras(t *testing.T) {
	reg := prometheus.NewRegistry()
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_extra_total", Help: "test"})

	InitMetrics(reg, extra)
	extra.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_extra_total" {
			found = true
		}
	}
	if !found {
		t.Error("extra collector was not registered")
	}
}
