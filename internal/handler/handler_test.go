package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"translator-go/internal/gemini"
	"translator-go/internal/history"
	"translator-go/internal/keypool"
	"translator-go/internal/store"
	"translator-go/internal/translator"
	"translator-go/internal/types"
	"translator-go/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubConfigManager provides fixed configuration for handler tests.
type stubConfigManager struct {
	translate types.TranslateConfig
}

func (m *stubConfigManager) GetServerConfig() types.ServerConfig   { return types.ServerConfig{} }
func (m *stubConfigManager) GetLogConfig() types.LogConfig         { return types.LogConfig{} }
func (m *stubConfigManager) GetCORSConfig() types.CORSConfig       { return types.CORSConfig{} }
func (m *stubConfigManager) GetKeysConfig() types.KeysConfig       { return types.KeysConfig{} }
func (m *stubConfigManager) GetTranslateConfig() types.TranslateConfig {
	return m.translate
}
func (m *stubConfigManager) GetLocalModelConfig() types.LocalModelConfig {
	return types.LocalModelConfig{}
}
func (m *stubConfigManager) GetHistoryConfig() types.HistoryConfig {
	return types.HistoryConfig{Limit: 20, SessionTTL: time.Hour}
}
func (m *stubConfigManager) GetPerformanceConfig() types.PerformanceConfig {
	return types.PerformanceConfig{MaxConcurrentRequests: 10}
}
func (m *stubConfigManager) Validate() error      { return nil }
func (m *stubConfigManager) DisplayServerConfig() {}

// stubLocal serves every direction from a fixed map, or fails.
type stubLocal struct {
	translations map[string]string
	err          error
}

func (l *stubLocal) Translate(text string, _ types.Direction) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if translated, ok := l.translations[text]; ok {
		return translated, nil
	}
	return text, nil
}

// newTestServer builds a Server whose router has no credentials, so every
// request is served by the stub local engine.
func newTestServer(t *testing.T, local *stubLocal) *Server {
	t.Helper()

	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })

	cfg := &stubConfigManager{translate: types.TranslateConfig{
		DefaultSourceLang: "en",
		DefaultTargetLang: "ur",
	}}
	hist := history.NewService(s, cfg.GetHistoryConfig())
	pool := keypool.NewPool(nil)
	router := translator.NewRouter(pool, nil, local, cfg.GetTranslateConfig())

	return &Server{
		ConfigManager:  cfg,
		Translator:     router,
		HistoryService: hist,
		Pool:           pool,
	}
}

func performTranslate(server *Server, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/translate", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	server.Translate(c)
	return w
}

// TestTranslate_DefaultDirection tests translation with the configured default
// language pair
func TestTranslate_DefaultDirection(t *testing.T) {
	server := newTestServer(t, &stubLocal{translations: map[string]string{"hello": "ہیلو"}})

	w := performTranslate(server, `{"text":"hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int               `json:"code"`
		Data TranslateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "ہیلو", resp.Data.TranslatedText)
	assert.Equal(t, "en-ur", resp.Data.Direction)
	assert.Equal(t, "local", resp.Data.Engine)
	assert.NotEmpty(t, resp.Data.SessionID)
	assert.Nil(t, resp.Data.KeyID)
}

// TestTranslate_ExplicitDirection tests the direction field
func TestTranslate_ExplicitDirection(t *testing.T) {
	server := newTestServer(t, &stubLocal{translations: map[string]string{"شکریہ": "thank you"}})

	w := performTranslate(server, `{"text":"شکریہ","direction":"ur-en"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TranslateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ur-en", resp.Data.Direction)
	assert.Equal(t, "thank you", resp.Data.TranslatedText)
}

// TestTranslate_DerivedDirection tests source_lang/target_lang derivation
func TestTranslate_DerivedDirection(t *testing.T) {
	server := newTestServer(t, &stubLocal{})

	w := performTranslate(server, `{"text":"شکریہ","source_lang":"ur","target_lang":"en"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TranslateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ur-en", resp.Data.Direction)
}

// TestTranslate_SessionIDEchoed tests that a provided session is reused
func TestTranslate_SessionIDEchoed(t *testing.T) {
	server := newTestServer(t, &stubLocal{})

	w := performTranslate(server, `{"text":"hello","session_id":"my-session"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TranslateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "my-session", resp.Data.SessionID)
}

// TestTranslate_ValidationFailures tests rejected payloads
func TestTranslate_ValidationFailures(t *testing.T) {
	server := newTestServer(t, &stubLocal{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `not json`},
		{"missing text", `{"direction":"en-ur"}`},
		{"blank text", `{"text":"   "}`},
		{"unknown direction", `{"text":"hello","direction":"en-fr"}`},
		{"unsupported pair", `{"text":"hello","source_lang":"en","target_lang":"fr"}`},
		{"partial pair", `{"text":"hello","source_lang":"en"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performTranslate(server, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestTranslate_Unavailable tests the terminal failure response
func TestTranslate_Unavailable(t *testing.T) {
	server := newTestServer(t, &stubLocal{err: assert.AnError})

	w := performTranslate(server, `{"text":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TRANSLATION_UNAVAILABLE", resp.Code)
	// The message is generic; no internal failure detail leaks
	assert.NotContains(t, resp.Message, assert.AnError.Error())
}

// stubRemote answers every attempt with a fixed text and captures requests.
type stubRemote struct {
	text     string
	requests []gemini.Request
}

func (r *stubRemote) Translate(_ context.Context, req gemini.Request, _ *keypool.Credential) (string, error) {
	r.requests = append(r.requests, req)
	return r.text, nil
}

// TestTranslate_PriorTurnsReachRouter tests that the handler reads the
// session history and hands it to the router as context
func TestTranslate_PriorTurnsReachRouter(t *testing.T) {
	remote := &stubRemote{text: "دوسرا"}
	server := newTestServer(t, &stubLocal{})
	server.Translator = translator.NewRouter(
		keypool.NewPool([]string{"k1"}),
		remote,
		&stubLocal{},
		server.ConfigManager.GetTranslateConfig(),
	)

	require.NoError(t, server.HistoryService.Append("s1", history.Entry{
		Direction:      types.DirectionENUR,
		SourceText:     "first",
		TranslatedText: "پہلا",
	}))

	w := performTranslate(server, `{"text":"second","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, remote.requests, 1)
	turns := remote.requests[0].Context
	require.Len(t, turns, 1)
	assert.Equal(t, "first", turns[0].SourceText)

	// The completed turn is appended by the handler after the router returns
	entries, err := server.HistoryService.Entries("s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[1].SourceText)
	assert.Equal(t, "دوسرا", entries[1].TranslatedText)
}

// TestGetHistory tests reading back recorded turns
func TestGetHistory(t *testing.T) {
	server := newTestServer(t, &stubLocal{translations: map[string]string{"hello": "ہیلو"}})

	w := performTranslate(server, `{"text":"hello","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/history/s1", nil)
	c.Params = gin.Params{{Key: "session_id", Value: "s1"}}
	server.GetHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data HistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.Data.SessionID)
	assert.Equal(t, 20, resp.Data.Limit)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "hello", resp.Data.Entries[0].SourceText)
	assert.Equal(t, "ہیلو", resp.Data.Entries[0].TranslatedText)
}

// TestClearHistory tests dropping a session
func TestClearHistory(t *testing.T) {
	server := newTestServer(t, &stubLocal{})

	w := performTranslate(server, `{"text":"hello","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/history/s1", nil)
	c.Params = gin.Params{{Key: "session_id", Value: "s1"}}
	server.ClearHistory(c)
	assert.Equal(t, http.StatusOK, w.Code)

	entries, err := server.HistoryService.Entries("s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestHealth tests the health endpoint payload
func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubLocal{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	c.Set("serverStartTime", time.Now().Add(-5*time.Minute))
	server.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, version.Version, resp["version"])
	assert.Contains(t, resp, "timestamp")
	assert.Contains(t, resp, "uptime")
	assert.Equal(t, float64(0), resp["keys"])
}
