package echoprom

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presbrey/b64/base64"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/ok/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	okBefore := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/ok/:id", "200"))
	failBefore := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/fail", "418"))

	for _, path := range []string{"/ok/1", "/ok/2", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/ok/:id", "200")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/fail", "418")))
}

func TestMiddlewareErrorWrittenOnce(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "bad"))
}

func TestMiddlewareSkipper(t *testing.T) {
	e := echo.New()
	e.Use(MiddlewareWithConfig(Config{
		Skipper: func(c echo.Context) bool { return c.Path() == "/skip" },
	}))
	e.GET("/skip", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	before := testutil.CollectAndCount(RequestsTotal)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/skip", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before, testutil.CollectAndCount(RequestsTotal))
}

func TestObserveCodec(t *testing.T) {
	bytesBefore := testutil.ToFloat64(BytesTotal.WithLabelValues("encode", "url"))
	errBefore := testutil.ToFloat64(ErrorsTotal.WithLabelValues("decode", "invalid_length"))

	ObserveCodec("encode", base64.URLSafe, 12, nil)
	ObserveCodec("decode", base64.Standard, 3, base64.ErrInvalidLength)
	ObserveCodec("decode", base64.Standard, 3, errors.Join(base64.ErrInvalidLength))

	assert.Equal(t, bytesBefore+12, testutil.ToFloat64(BytesTotal.WithLabelValues("encode", "url")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(ErrorsTotal.WithLabelValues("decode", "invalid_length")))
}

func TestHandler(t *testing.T) {
	ObserveCodec("encode", base64.Standard, 1, nil)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `b64_bytes_total{op="encode",variant="standard"}`)
	assert.Contains(t, string(body), "go_goroutines")
}
