package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"univ_schedule/internal/events"
	"univ_schedule/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AllTopic - подписка на события всех групп.
const AllTopic = "all"

// Hub хранит подключения клиентов, сгруппированные по теме (id группы или AllTopic).
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

// BroadcastMessage - сообщение для рассылки подписчикам темы.
type BroadcastMessage struct {
	Topic   string
	Message []byte
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run обрабатывает каналы хаба до отмены ctx. Повторный запуск не поддерживается.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[message.Topic] {
				select {
				case client.Send <- message.Message:
				default:
					// Медленный клиент отключается.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.Send)
		if len(clients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

// Subscribers возвращает число подключений темы.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Publish рассылает событие подписчикам всех групп события и подписчикам AllTopic.
func (h *Hub) Publish(ctx context.Context, ev events.LessonEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	topics := make([]string, 0, len(ev.GroupIDs)+1)
	topics = append(topics, AllTopic)
	for _, id := range ev.GroupIDs {
		topics = append(topics, strconv.FormatUint(uint64(id), 10))
	}
	for _, topic := range topics {
		select {
		case h.broadcast <- BroadcastMessage{Topic: topic, Message: payload}:
		case <-ctx.Done():
			return ctx.Err()
		case <-h.done:
			return nil
		}
	}
	return nil
}

// Client - одно WebSocket-подключение.
type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Send  chan []byte
	Topic string
}

// readPump только отслеживает разрыв соединения: входящие сообщения не обрабатываются.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump отправляет клиенту сообщения из Send и пинги.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS подписывает клиента на события группы (?group=<id>) или на все события.
// @Summary		Подписка на изменения расписания
// @Description	WebSocket: события lesson_created, lesson_updated, lesson_deleted, lessons_bulk_deleted
// @Tags			events
// @Param			group	query	int	false	"ID группы"
// @Router			/ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	topic := AllTopic
	if group := c.Query("group"); group != "" {
		id, err := strconv.ParseUint(group, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Code: "INVALID_GROUP", Message: "group должен быть числом"})
			return
		}
		// тема совпадает с той, что строит Publish: "007" и "7" - одна группа
		topic = strconv.FormatUint(id, 10)
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Ошибка обновления до WebSocket", "error", err)
		return
	}
	client := &Client{
		Hub:   h,
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Topic: topic,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

var _ events.Publisher = (*Hub)(nil)
