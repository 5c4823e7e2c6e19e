package controller

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastDropsForSlowClients(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.subscribe()
	defer unsubscribe()

	for i := 0; i < clientBuffer+5; i++ {
		require.NoError(t, hub.Broadcast([]byte("tick")))
	}
	assert.Len(t, ch, clientBuffer)
	assert.Equal(t, 1, hub.Clients())
}

func TestHub_LateSubscriberGetsLastMessage(t *testing.T) {
	hub := NewHub()
	require.NoError(t, hub.Broadcast([]byte("first")))
	require.NoError(t, hub.Broadcast([]byte("second")))

	ch, unsubscribe := hub.subscribe()
	assert.Equal(t, "second", string(<-ch))

	unsubscribe()
	assert.Zero(t, hub.Clients())
}

func TestSSEPrices_StreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	require.NoError(t, hub.Broadcast([]byte(`{"prices":{"BTC":1},"status":"connected"}`)))

	router := gin.New()
	router.GET("/stream", SSEPrices(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}

	assert.Contains(t, readData(), `"BTC":1`)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Broadcast([]byte(`{"prices":{"BTC":2},"status":"connected"}`)))
	assert.Contains(t, readData(), `"BTC":2`)
}
