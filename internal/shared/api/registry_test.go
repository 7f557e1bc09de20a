package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booka-backend/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type echo struct {
	Page    int64   `json:"page"`
	Books   []int64 `json:"books"`
	UserID  int64   `json:"user_id"`
	HasPage bool    `json:"has_page"`
}

var tokens = jwt.NewManager("test-secret", time.Hour)

func newEngine(t *testing.T, eps ...Endpoint) (*gin.Engine, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reg := NewRegistry(tokens)
	require.NoError(t, reg.Mount(r.Group("/api/v1"), eps...))
	return r, reg
}

func do(t *testing.T, r http.Handler, req *http.Request) envelope {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func echoEndpoint(method string, auth AuthMode) Endpoint {
	return Endpoint{
		Name:   "echo",
		Method: method,
		Path:   "/echo",
		Params: []Param{
			{Name: "page", Type: TypeInteger, Optional: true},
			{Name: "books", Type: TypeIntegerList, Optional: true},
		},
		Response:    echo{},
		Errors:      ErrorTable{1: "unknown error", 2: "account error", 3: "invalid parameters"},
		Auth:        auth,
		AuthCode:    2,
		InvalidCode: 3,
		Handle: func(c *gin.Context, req *Request) (any, error) {
			return echo{Page: req.Int("page"), Books: req.IntList("books"), UserID: req.UserID(), HasPage: req.Has("page")}, nil
		},
	}
}

func decodeEcho(t *testing.T, env envelope) echo {
	t.Helper()
	var out echo
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestDispatch_QueryParams(t *testing.T) {
	r, _ := newEngine(t, echoEndpoint(http.MethodGet, AuthNone))

	env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/echo?page=2&books=4,5", nil))
	require.Equal(t, 0, env.Code)
	assert.Equal(t, "success", env.Message)

	got := decodeEcho(t, env)
	assert.Equal(t, int64(2), got.Page)
	assert.True(t, got.HasPage)
	assert.Equal(t, []int64{4, 5}, got.Books)
}

func TestDispatch_InvalidParams(t *testing.T) {
	ep := echoEndpoint(http.MethodGet, AuthNone)
	ep.Params[0].Optional = false
	r, _ := newEngine(t, ep)

	env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	assert.Equal(t, 3, env.Code)
	assert.Contains(t, env.Message, "page is required")

	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/echo?page=abc", nil))
	assert.Equal(t, 3, env.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestDispatch_JSONBody(t *testing.T) {
	r, _ := newEngine(t, echoEndpoint(http.MethodPost, AuthNone))

	tests := []struct {
		name string
		body string
		want []int64
	}{
		{"array", `{"page": 1, "books": [1, 2, 3]}`, []int64{1, 2, 3}},
		{"encoded string", `{"page": "1", "books": "[7, 8]"}`, []int64{7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			env := do(t, r, req)
			require.Equal(t, 0, env.Code)
			got := decodeEcho(t, env)
			assert.Equal(t, int64(1), got.Page)
			assert.Equal(t, tt.want, got.Books)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`[1,2]`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, 3, do(t, r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"books": [1, "x"]}`))
	assert.Equal(t, 3, do(t, r, req).Code)
}

func TestDispatch_FormFallback(t *testing.T) {
	r, _ := newEngine(t, echoEndpoint(http.MethodPost, AuthNone))

	form := url.Values{"page": {"4"}, "books": {"9"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	env := do(t, r, req)
	require.Equal(t, 0, env.Code)
	got := decodeEcho(t, env)
	assert.Equal(t, int64(4), got.Page)
	assert.Equal(t, []int64{9}, got.Books)
}

func TestDispatch_AuthRequired(t *testing.T) {
	r, _ := newEngine(t, echoEndpoint(http.MethodGet, AuthRequired))

	env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	assert.Equal(t, 2, env.Code)
	assert.Equal(t, "account error", env.Message)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, 2, do(t, r, req).Code)

	token, err := tokens.GenerateToken(11, "alice")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	env = do(t, r, req)
	require.Equal(t, 0, env.Code)
	assert.Equal(t, int64(11), decodeEcho(t, env).UserID)

	env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/echo?token="+token, nil))
	require.Equal(t, 0, env.Code)
	assert.Equal(t, int64(11), decodeEcho(t, env).UserID)
}

func TestDispatch_AuthOptional(t *testing.T) {
	r, _ := newEngine(t, echoEndpoint(http.MethodGet, AuthOptional))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	env := do(t, r, req)
	require.Equal(t, 0, env.Code)
	assert.Equal(t, int64(0), decodeEcho(t, env).UserID)
}

func TestDispatch_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"declared code uses table text", Fail(2, ""), 2, "book not found"},
		{"declared code with message", Fail(2, "book 9 not found"), 2, "book 9 not found"},
		{"undeclared code collapses", Fail(7, "nope"), 1, "unknown error"},
		{"plain error collapses", errors.New("db down"), 1, "unknown error"},
		{"wrapped coded error", errors.Join(errors.New("ctx"), Fail(2, "")), 2, "book not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			r, _ := newEngine(t, Endpoint{
				Name:   "failing",
				Method: http.MethodGet,
				Path:   "/fail",
				Errors: ErrorTable{1: "unknown error", 2: "book not found"},
				Handle: func(*gin.Context, *Request) (any, error) { return nil, err },
			})

			env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/fail", nil))
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestMount_RejectsBadDeclarations(t *testing.T) {
	base := echoEndpoint(http.MethodGet, AuthRequired)

	tests := []struct {
		name   string
		mutate func(*Endpoint)
	}{
		{"missing unknown code", func(e *Endpoint) { e.Errors = ErrorTable{2: "a", 3: "b"} }},
		{"auth code not declared", func(e *Endpoint) { e.AuthCode = 9 }},
		{"invalid code not declared", func(e *Endpoint) { e.InvalidCode = 0 }},
		{"success code declared", func(e *Endpoint) { e.Errors = ErrorTable{0: "ok", 1: "x", 2: "y", 3: "z"} }},
		{"bad method", func(e *Endpoint) { e.Method = http.MethodDelete }},
		{"duplicate param", func(e *Endpoint) { e.Params = append(e.Params, Param{Name: "page", Type: TypeInteger}) }},
		{"unknown param type", func(e *Endpoint) { e.Params[0].Type = "float" }},
		{"nil handler", func(e *Endpoint) { e.Handle = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := base
			ep.Params = append([]Param(nil), base.Params...)
			ep.Errors = ErrorTable{}
			for k, v := range base.Errors {
				ep.Errors[k] = v
			}
			tt.mutate(&ep)

			reg := NewRegistry(tokens)
			require.Error(t, reg.Mount(gin.New().Group("/api/v1"), ep))
		})
	}

	reg := NewRegistry(tokens)
	g := gin.New().Group("/api/v1")
	require.NoError(t, reg.Mount(g, base))
	require.Error(t, reg.Mount(g, base))
}

func TestCatalog(t *testing.T) {
	r, reg := newEngine(t, echoEndpoint(http.MethodGet, AuthOptional))
	r.GET("/api/v1/docs", reg.DocsHandler())

	docs := reg.Catalog()
	require.Len(t, docs, 1)
	assert.Equal(t, "/api/v1/echo", docs[0].Path)
	assert.Equal(t, "optional", docs[0].Auth)
	assert.Equal(t, []ErrorDoc{{1, "unknown error"}, {2, "account error"}, {3, "invalid parameters"}}, docs[0].Errors)

	shape, ok := docs[0].Response.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", shape["page"])
	assert.Equal(t, []any{"integer"}, shape["books"])

	env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/docs", nil))
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), `"name":"echo"`)
}
