package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/scoring/scoringtest"
	"github.com/wonny/quantumedge/pkg/logger"
)

func dialStream(t *testing.T, h *StreamHandler) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) dashboard.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg StreamMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "snapshot", msg.Type)
	return msg.Payload
}

func waitClients(t *testing.T, h *StreamHandler, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestStream_InitialAndUpdates(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(scoringtest.Response{Result: scoringtest.SampleResult()}), logger.Nop())
	h := NewStreamHandler(store, 0, logger.Nop())
	defer h.Close()

	conn := dialStream(t, h)
	first := readSnapshot(t, conn)
	assert.Equal(t, dashboard.StateEmpty, first.State)
	waitClients(t, h, 1)

	_, err := store.RunAnalysis(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dashboard.StateLoading, readSnapshot(t, conn).State)
	settled := readSnapshot(t, conn)
	assert.Equal(t, dashboard.StatePortfolio, settled.State)
	assert.Len(t, settled.Cards, 2)
}

func TestStream_ThrottleKeepsLatest(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(), logger.Nop())
	h := NewStreamHandler(store, 50*time.Millisecond, logger.Nop())
	defer h.Close()

	conn := dialStream(t, h)
	readSnapshot(t, conn)
	waitClients(t, h, 1)

	for _, capital := range []int64{1, 2, 3, 4, 5} {
		store.SetCapital(capital * 1_000_000)
	}

	// The first change goes out at once; the burst collapses into the last one
	assert.Equal(t, int64(1_000_000), readSnapshot(t, conn).Config.Capital)
	assert.Equal(t, int64(5_000_000), readSnapshot(t, conn).Config.Capital)
}

func expectNoSnapshot(t *testing.T, conn *websocket.Conn, wait time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(wait)))
	_, data, err := conn.ReadMessage()
	assert.Error(t, err, "unexpected frame %s", data)
}

func TestStream_ParkedSnapshotNeverOverridesNewer(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(), logger.Nop())
	h := NewStreamHandler(store, 100*time.Millisecond, logger.Nop())
	defer h.Close()

	conn := dialStream(t, h)
	readSnapshot(t, conn)
	waitClients(t, h, 1)

	// 2e6 is parked inside the window; the limiter refills before its flush
	// fires, so 3e6 goes out directly and must stay the last frame
	store.SetCapital(1_000_000)
	time.Sleep(60 * time.Millisecond)
	store.SetCapital(2_000_000)
	time.Sleep(50 * time.Millisecond)
	store.SetCapital(3_000_000)

	var last dashboard.Snapshot
	for last.Config.Capital != 3_000_000 {
		snap := readSnapshot(t, conn)
		assert.Greater(t, snap.Version, last.Version)
		last = snap
	}
	expectNoSnapshot(t, conn, 250*time.Millisecond)
	assert.Equal(t, store.Config().Capital, last.Config.Capital)
}

func TestStream_OutOfOrderDeliveryDropsOlder(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(), logger.Nop())
	h := NewStreamHandler(store, 0, logger.Nop())
	defer h.Close()

	conn := dialStream(t, h)
	initial := readSnapshot(t, conn)
	waitClients(t, h, 1)

	settled := initial
	settled.Version = initial.Version + 2
	settled.Config.Capital = 7_000_000
	loading := initial
	loading.Version = initial.Version + 1
	loading.Loading = true

	// Listeners run outside the store lock, so transitions can arrive reversed
	h.onSnapshot(settled)
	h.onSnapshot(loading)

	got := readSnapshot(t, conn)
	assert.Equal(t, settled.Version, got.Version)
	assert.False(t, got.Loading)
	expectNoSnapshot(t, conn, 200*time.Millisecond)
}

func TestStream_StalledClientDoesNotBlockStore(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(), logger.Nop())
	h := NewStreamHandler(store, 0, logger.Nop())
	defer h.Close()

	// Never reads after the handshake
	dialStream(t, h)
	reader := dialStream(t, h)
	readSnapshot(t, reader)
	waitClients(t, h, 2)

	const updates = 5000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(1); i <= updates; i++ {
			store.SetCapital(i * 1_000)
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("SetCapital blocked on a client that stopped reading")
	}

	var last dashboard.Snapshot
	for last.Config.Capital != updates*1_000 {
		snap := readSnapshot(t, reader)
		assert.Greater(t, snap.Version, last.Version)
		last = snap
	}
}

func TestStreamClient_Push(t *testing.T) {
	c := newStreamClient(nil)

	assert.True(t, c.push(0, []byte("v0")))
	assert.False(t, c.push(0, []byte("v0 again")))
	for v := uint64(1); v <= sendBuffer+3; v++ {
		assert.True(t, c.push(v, []byte{byte(v)}))
	}
	assert.False(t, c.push(2, []byte("stale")))

	require.Len(t, c.send, sendBuffer)
	var last []byte
	for len(c.send) > 0 {
		last = <-c.send
	}
	assert.Equal(t, []byte{byte(sendBuffer + 3)}, last, "newest frame is kept when the queue is full")
}

func TestStream_CloseDisconnects(t *testing.T) {
	store := dashboard.NewStore(scoringtest.NewFake(), logger.Nop())
	h := NewStreamHandler(store, 0, logger.Nop())

	conn := dialStream(t, h)
	readSnapshot(t, conn)
	waitClients(t, h, 1)

	h.Close()
	assert.Equal(t, 0, h.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{dashboard.ErrAnalysisInFlight, http.StatusConflict},
		{dashboard.ErrNoResults, http.StatusConflict},
		{dashboard.ErrCandidateNotFound, http.StatusNotFound},
		{dashboard.ErrInvalidViewMode, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
