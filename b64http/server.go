// Package b64http serves the base64 codec over HTTP with Echo.
//
// Routes:
//
//	POST /v1/encode           raw body -> padded text
//	POST /v1/decode           padded text -> raw body
//	GET  /v1/length/encode    ?n=<bytes> -> {"length": m}
//	POST /v1/length/decode    padded text -> {"length": n}
//	POST /v1/transcode        JSON {"op","variant","data"}
//	GET  /healthz
//
// Every codec route accepts ?variant=standard|url; the configured variant
// is used otherwise.
package b64http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/presbrey/b64/config"
	"github.com/presbrey/b64/echoprom"
)

// Server is the transcoding HTTP service.
type Server struct {
	Echo *echo.Echo

	cfg *config.Config
}

// New builds a Server with all routes and middleware registered. A nil cfg
// means config.Default().
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Validator = newRequestValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	// The logger wraps Recover so that panicking requests are logged too.
	if cfg.Log.Requests && !cfg.Log.Silent {
		e.Use(requestLogger())
	}
	e.Use(middleware.Recover())
	if cfg.Metrics.Enabled {
		metricsPath := cfg.Metrics.Path
		e.Use(echoprom.MiddlewareWithConfig(echoprom.Config{
			Skipper: func(c echo.Context) bool { return c.Path() == metricsPath },
		}))
		e.GET(metricsPath, echo.WrapHandler(echoprom.Handler()))
	}
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	s := &Server{Echo: e, cfg: cfg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealth)

	v1 := s.Echo.Group("/v1")
	v1.POST("/encode", s.handleEncode)
	v1.POST("/decode", s.handleDecode)
	v1.GET("/length/encode", s.handleEncodeLength)
	v1.POST("/length/decode", s.handleDecodeLength)
	v1.POST("/transcode", s.handleTranscode)
}

// requestLogger writes one log line per request in the same format as the
// rest of the binaries.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %s %d %s err=%v", v.RequestID, v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Printf("%s %s %s %d %s", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Echo.ServeHTTP(w, r)
}

// Start listens on the configured address and blocks until ctx is done or
// the listener fails. On cancellation the server is shut down gracefully
// within Server.ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Echo.Start(s.cfg.ListenAddress())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
