package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"soulfilmes/httpserver"
	"soulfilmes/movie"
	"soulfilmes/pkg/config"
	"soulfilmes/user"
	"soulfilmes/usermovies"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-csrf-token"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Session.Secret = "test-session-secret"
	cfg.Session.MaxIdle = time.Hour
	return cfg
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetUser(ctx context.Context, userID string) (user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockGateway) GetUserMovies(ctx context.Context, userID string) ([]movie.Movie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockGateway) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockGateway) AddMovieToUser(ctx context.Context, userID, movieID string) (usermovies.AddResponse, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Get(0).(usermovies.AddResponse), args.Error(1)
}

func (m *MockGateway) RemoveMovieFromUser(ctx context.Context, userID, movieID string) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *MockGateway) ListUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]user.User), args.Error(1)
}

var (
	ana      = user.User{ID: "1", Name: "Ana", Email: "ana@mail.com"}
	heat     = movie.Movie{ID: 1, Title: "Heat", Genre: "Ação", ReleaseYear: 1995}
	alien    = movie.Movie{ID: 2, Title: "Alien", Genre: "Terror", ReleaseYear: 1979}
	catalog2 = []movie.Movie{heat, alien}
)

// stubLoads makes the gateway answer the page and modal loads for ana, who
// already has heat.
func stubLoads(gw *MockGateway) {
	gw.On("ListUsers", mock.Anything).Return([]user.User{ana}, nil)
	gw.On("GetUser", mock.Anything, ana.ID).Return(ana, nil)
	gw.On("GetUserMovies", mock.Anything, ana.ID).Return([]movie.Movie{heat}, nil)
	gw.On("GetMovies", mock.Anything).Return(catalog2, nil)
}

func newTestServer(gw *MockGateway) *httpserver.Server {
	server := httpserver.Default(testConfig())
	server.Sessions = usermovies.NewRegistry(usermovies.RegistryOptions{Gateway: gw, Directory: gw})
	return server
}

// browser replays the cookies the server hands out, like an operator's
// browser would, and always carries a valid CSRF pair.
type browser struct {
	t       *testing.T
	server  *httpserver.Server
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, server *httpserver.Server) *browser {
	return &browser{t: t, server: server, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRFToken})
	req.Header.Set("X-CSRF-Token", testCSRFToken)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.server.Router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name != "csrf_token" {
			b.cookies[c.Name] = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return b.do(req)
}

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "Failed to decode response")
	return resp
}

func decodeModalResult(t *testing.T, rec *httptest.ResponseRecorder) httpserver.ModalResult {
	t.Helper()
	var result httpserver.ModalResult
	require.NoError(t, json.Unmarshal(decodeAPIResponse(t, rec).Result, &result))
	return result
}

func postFormWithoutCSRF(server *httpserver.Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}
