package app_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"translator-go/internal/app"
	"translator-go/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freePort reserves an ephemeral port and releases it for the server to bind.
func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

// TestApp_StartAndStop tests the full lifecycle: container build, server
// start, health probe, graceful shutdown
func TestApp_StartAndStop(t *testing.T) {
	port := freePort(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", strconv.Itoa(port))
	t.Setenv("GEMINI_API_KEYS", "test-key-1")

	c, err := container.BuildContainer()
	require.NoError(t, err)

	var application *app.App
	require.NoError(t, c.Invoke(func(a *app.App) { application = a }))
	require.NoError(t, application.Start())

	// Wait for the listener to come up
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(healthURL)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	application.Stop(ctx)

	// The listener is gone after shutdown
	_, err = http.Get(healthURL)
	assert.Error(t, err)
}
