package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"univ_schedule/internal/events"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, url, topic string) *websocket.Conn {
	t.Helper()
	before := hub.Subscribers(topic)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Subscribers(topic) == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.LessonEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev events.LessonEvent
	require.NoError(t, json.Unmarshal(payload, &ev))
	return ev
}

func TestPublishReachesGroupAndAllSubscribers(t *testing.T) {
	hub, url := startHub(t)
	groupOne := dial(t, hub, url+"?group=1", "1")
	groupTwo := dial(t, hub, url+"?group=2", "2")
	everyone := dial(t, hub, url, AllTopic)

	ev := events.LessonEvent{Type: events.LessonCreated, LessonIDs: []uint{10}, Day: 1, Pair: 2, GroupIDs: []uint{1}}
	require.NoError(t, hub.Publish(context.Background(), ev))

	got := readEvent(t, groupOne)
	assert.Equal(t, events.LessonCreated, got.Type)
	assert.Equal(t, []uint{10}, got.LessonIDs)
	assert.Equal(t, events.LessonCreated, readEvent(t, everyone).Type)

	require.NoError(t, groupTwo.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := groupTwo.ReadMessage()
	assert.Error(t, err, "подписчик другой группы не получает событие")
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?group=5", "5")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers("5") == 0 }, time.Second, 10*time.Millisecond)
}

func TestServeWSRejectsBadGroup(t *testing.T) {
	_, url := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?group=abc", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_GROUP", body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestServeWSNormalizesGroupID(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?group=007", "7")
	assert.Equal(t, 0, hub.Subscribers("007"))

	require.NoError(t, hub.Publish(context.Background(), events.LessonEvent{Type: events.LessonDeleted, LessonIDs: []uint{3}, GroupIDs: []uint{7}}))
	assert.Equal(t, events.LessonDeleted, readEvent(t, conn).Type)
}

func TestPublishStopsWithContext(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.Publish(ctx, events.LessonEvent{Type: events.LessonDeleted})
	assert.ErrorIs(t, err, context.Canceled)
}
