package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberMiddleware_RecordsRouteTemplate(t *testing.T) {
	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/jobs/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/jobs/:id", "404"))
	resp, err := app.Test(httptest.NewRequest("GET", "/jobs/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/jobs/:id", "404")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "resume_optimizer_http_requests_total")
}

func TestPipeline(t *testing.T) {
	p := NewPipeline()

	before := testutil.ToFloat64(rendersTotal.WithLabelValues("modern", "ok"))
	p.ObserveRender("modern", "ok", 2)
	assert.Equal(t, before+1, testutil.ToFloat64(rendersTotal.WithLabelValues("modern", "ok")))

	before = testutil.ToFloat64(rendersTotal.WithLabelValues("unknown", "validating"))
	p.ObserveRender("", "validating", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(rendersTotal.WithLabelValues("unknown", "validating")))

	before = testutil.ToFloat64(generationsTotal.WithLabelValues("mock", "ok"))
	p.ObserveGeneration("mock", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(generationsTotal.WithLabelValues("mock", "ok")))
}
