// nolint: funlen
package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soulfilmes/errs"
	"soulfilmes/httpserver"
	"soulfilmes/pkg/metrics"
	"soulfilmes/usermovies"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefault(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		server := httpserver.Default(testConfig())

		assert.NotNil(t, server.Router)
		assert.Equal(t, ":8080", server.Addr)
		assert.Equal(t, []string{"*"}, server.AllowOrigins)
		assert.NotNil(t, server.SessionStore)
		assert.NotNil(t, server.Metrics)
		assert.Nil(t, server.Sessions, "sessions are wired by the caller")
	})

	t.Run("origins come from config", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowOrigins = "https://filmes.local,https://admin.filmes.local"

		server := httpserver.Default(cfg)

		assert.Equal(t, []string{"https://filmes.local", "https://admin.filmes.local"}, server.AllowOrigins)
	})
}

func TestServerStartAndShutdown(t *testing.T) {
	server := httpserver.Default(testConfig())
	port := allocateRandomPort(t)
	server.Addr = fmt.Sprintf("127.0.0.1:%d", port)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/healthcheck", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond, "server never answered the healthcheck")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("unexpected error during shutdown: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("server did not stop within timeout")
	}
}

func TestCustomErrorHandler(t *testing.T) {
	tests := []struct {
		name               string
		error              error
		expectedStatusCode int
		expectedCode       string
		expectedMessage    string
	}{
		{
			name:               "invalid",
			error:              usermovies.ErrNoSelection,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "100010",
			expectedMessage:    "Selecione um filme.",
		},
		{
			name:               "not found",
			error:              usermovies.ErrMovieNotInCatalog,
			expectedStatusCode: http.StatusNotFound,
			expectedCode:       "100404",
			expectedMessage:    "Filme não encontrado na lista.",
		},
		{
			name:               "conflict",
			error:              usermovies.ErrOperationInProgress,
			expectedStatusCode: http.StatusConflict,
			expectedCode:       "100409",
			expectedMessage:    "Operação em andamento.",
		},
		{
			name:               "unauthorized",
			error:              errs.Errorf(errs.EUNAUTHORIZED, "sessão inválida"),
			expectedStatusCode: http.StatusUnauthorized,
			expectedCode:       "100401",
			expectedMessage:    "sessão inválida",
		},
		{
			name:               "internal hides the message",
			error:              errs.Errorf(errs.EINTERNAL, "database connection failed"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "plain error",
			error:              fmt.Errorf("get movies: %w", context.DeadlineExceeded),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "echo error keeps its status",
			error:              echo.NewHTTPError(http.StatusForbidden, "invalid csrf token"),
			expectedStatusCode: http.StatusForbidden,
			expectedCode:       "100403",
			expectedMessage:    "invalid csrf token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httpserver.Default(testConfig())
			server.Router.GET("/error", func(c echo.Context) error {
				return tt.error
			})

			rec := makeRequest(server, http.MethodGet, "/error")

			assert.Equal(t, tt.expectedStatusCode, rec.Code)
			resp := decodeAPIResponse(t, rec)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}

func TestSessionsNotConfigured(t *testing.T) {
	server := httpserver.Default(testConfig())

	for _, path := range []string{"/usuarios", "/api/usuarios"} {
		t.Run(path, func(t *testing.T) {
			rec := makeRequest(server, http.MethodGet, path)

			assert.Equal(t, http.StatusNotImplemented, rec.Code)
			resp := decodeAPIResponse(t, rec)
			assert.Equal(t, "100501", resp.Code)
			assert.Equal(t, "user movies not configured", resp.Message)
		})
	}

	t.Run("healthcheck does not need sessions", func(t *testing.T) {
		rec := makeRequest(server, http.MethodGet, "/healthcheck")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	server := httpserver.Default(testConfig())
	server.Logger = zap.New(core).Sugar()
	server.Router.GET("/error", func(c echo.Context) error {
		return errs.Errorf(errs.EINTERNAL, "catalog offline")
	})

	makeRequest(server, http.MethodGet, "/healthcheck")
	makeRequest(server, http.MethodGet, "/error")

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 2)

	ok := requests[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, "/healthcheck", ok["uri"])
	assert.EqualValues(t, http.StatusOK, ok["status"])
	assert.NotEmpty(t, ok["request_id"])

	failed := requests[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
	assert.Equal(t, "/error", failed["uri"])
	assert.EqualValues(t, http.StatusInternalServerError, failed["status"])

	assert.Equal(t, 1, logs.FilterMessage("request failed").Len(), "5xx errors are logged by the error handler")
}

func TestMetricsExposeModalCounters(t *testing.T) {
	gw := new(MockGateway)
	stubLoads(gw)
	server := httpserver.Default(testConfig())
	server.Sessions = usermovies.NewRegistry(usermovies.RegistryOptions{
		Gateway:   gw,
		Directory: gw,
		Metrics:   metrics.NewUserMovies(server.Metrics),
	})

	b := newBrowser(t, server)
	require.Equal(t, http.StatusOK, b.get("/usuarios?usuario=1").Code)

	rec := makeRequest(server, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "soulfilmes_modal_sessions 1")
	assert.Contains(t, body, `soulfilmes_loads_total{resource="filmes",result="success"} 1`)
	assert.Contains(t, body, `soulfilmes_loads_total{resource="usuario",result="success"} 1`)
}

func allocateRandomPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func makeRequest(server *httpserver.Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}
