package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) MorayServer {
	t.Helper()

	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv MorayServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func Test_Server_parseProgram(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, APIPathPrefix+"/parse", `{"source": "x = 1\n"}`)
	if !assert.Equal(http.StatusOK, w.Code) {
		return
	}

	var resp ParseResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}

	assert.Equal(ModeProgram, resp.Mode)
	assert.NotEmpty(resp.ID)
	assert.Contains(resp.AST, "ASSIGN")
}

func Test_Server_parseExpressionMode(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, APIPathPrefix+"/parse", `{"source": "a + b", "mode": "expression"}`)
	if !assert.Equal(http.StatusOK, w.Code) {
		return
	}

	var resp ParseResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}

	assert.Equal(ModeExpression, resp.Mode)
	assert.Contains(resp.AST, "BIN-OP ADD")
}

func Test_Server_parseFailureIsBadRequest(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, APIPathPrefix+"/parse", `{"source": "def f(:\n"}`)
	if !assert.Equal(http.StatusBadRequest, w.Code) {
		return
	}

	var resp ErrorResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}
	assert.Contains(resp.Error, "syntax error")
}

func Test_Server_badMode(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, APIPathPrefix+"/parse", `{"source": "x", "mode": "nonsense"}`)
	assert.Equal(http.StatusBadRequest, w.Code)
}

func Test_Server_info(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, APIPathPrefix+"/info", "")
	if !assert.Equal(http.StatusOK, w.Code) {
		return
	}

	var resp InfoResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}
	assert.Equal("moray", resp.Name)
	assert.NotEmpty(resp.Version)
}

func Test_Server_notFound(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Config_fillDefaultsAndValidate(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()
	assert.Equal(DefaultListenAddress, cfg.ListenAddress)
	assert.Equal(DefaultMaxSourceLen, cfg.MaxSourceLen)
	assert.NoError(cfg.Validate())

	bad := Config{ListenAddress: "x", MaxSourceLen: -1}
	assert.Error(bad.Validate())
}
