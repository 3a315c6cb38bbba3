package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/analytics"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// sendBuffer визначає кількість подій, що чекають на відправку клієнту
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Типи повідомлень стрічки
const (
	MessageSnapshot     = "snapshot"
	MessageChange       = "change"
	MessageHeartbeatAck = "heartbeat_ack"
	MessageError        = "error"
)

// FeedMessage є повідомленням, яке сервер надсилає клієнту
type FeedMessage struct {
	Type      string           `json:"type"`
	Version   uint64           `json:"version,omitempty"`
	Operation ports.Operation  `json:"operation,omitempty"`
	MissionID string           `json:"missionId,omitempty"`
	Filter    analytics.Filter `json:"filter,omitempty"`
	Missions  []domain.Mission `json:"missions"`
	Error     string           `json:"error,omitempty"`
	Time      int64            `json:"time,omitempty"`
}

// clientMessage є повідомленням від клієнта
type clientMessage struct {
	Type   string `json:"type"`
	Filter string `json:"filter,omitempty"`
}

// feedClient представляє одне WebSocket з'єднання
type feedClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan ports.ChangeEvent
	ctrl chan FeedMessage
	done chan struct{}

	mu     sync.Mutex
	filter analytics.Filter
}

func (c *feedClient) currentFilter() analytics.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *feedClient) setFilter(f analytics.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// MissionFeedHandler транслює зміни сховища місій через WebSocket
type MissionFeedHandler struct {
	store    ports.MissionStore
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	upgrader websocket.Upgrader

	connections   map[uuid.UUID]*feedClient
	connectionsMu sync.Mutex

	unsubscribe func()
}

// NewMissionFeedHandler створює новий MissionFeedHandler і підписує його на сховище
func NewMissionFeedHandler(store ports.MissionStore, log logger.Logger, m *metrics.Metrics, checkOrigin func(r *http.Request) bool) *MissionFeedHandler {
	h := &MissionFeedHandler{
		store:   store,
		logger:  log,
		metrics: m,
		now:     time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		connections: make(map[uuid.UUID]*feedClient),
	}
	h.unsubscribe = store.Subscribe(h.broadcast)
	return h
}

// Close відписується від сховища та закриває всі з'єднання
func (h *MissionFeedHandler) Close() {
	h.unsubscribe()

	h.connectionsMu.Lock()
	defer h.connectionsMu.Unlock()
	for id, c := range h.connections {
		delete(h.connections, id)
		close(c.done)
	}
	h.setClientGauge(0)
}

// HandleConnection оброблює WebSocket з'єднання
func (h *MissionFeedHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	filter, err := analytics.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Error upgrading connection", "error", err)
		return
	}

	client := &feedClient{
		id:     uuid.New(),
		conn:   conn,
		send:   make(chan ports.ChangeEvent, sendBuffer),
		ctrl:   make(chan FeedMessage, 4),
		done:   make(chan struct{}),
		filter: filter,
	}

	// Реєстрація з'єднання
	h.connectionsMu.Lock()
	h.connections[client.id] = client
	h.setClientGauge(len(h.connections))
	h.connectionsMu.Unlock()

	h.logger.Debug("Feed client connected", "client_id", client.id, "filter", filter)

	// Знімок береться після реєстрації, тож жодна зміна не загубиться
	go h.writePump(client, h.snapshotMessage(filter))
	go h.readPump(client)
}

// broadcast викликається сховищем під блокуванням записувача, тому не блокується
func (h *MissionFeedHandler) broadcast(event ports.ChangeEvent) {
	h.connectionsMu.Lock()
	defer h.connectionsMu.Unlock()

	for id, c := range h.connections {
		select {
		case c.send <- event:
		default:
			// Повільний клієнт відключається, щоб не блокувати сховище
			h.logger.Warn("Dropping slow feed client", "client_id", id)
			delete(h.connections, id)
			close(c.done)
		}
	}
	h.setClientGauge(len(h.connections))
}

func (h *MissionFeedHandler) remove(c *feedClient) {
	h.connectionsMu.Lock()
	if _, ok := h.connections[c.id]; ok {
		delete(h.connections, c.id)
		close(c.done)
	}
	h.setClientGauge(len(h.connections))
	h.connectionsMu.Unlock()
}

// readPump читає повідомлення клієнта до закриття з'єднання
func (h *MissionFeedHandler) readPump(c *feedClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error", "client_id", c.id, "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}
		h.handleTextMessage(c, data)
	}
}

// handleTextMessage обробляє текстові повідомлення у форматі JSON
func (h *MissionFeedHandler) handleTextMessage(c *feedClient, data []byte) {
	var message clientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		h.reply(c, FeedMessage{Type: MessageError, Error: "malformed message"})
		return
	}

	switch message.Type {
	case "heartbeat":
		h.reply(c, FeedMessage{Type: MessageHeartbeatAck, Time: h.now().Unix()})

	case "filter":
		filter, err := analytics.ParseFilter(message.Filter)
		if err != nil {
			h.reply(c, FeedMessage{Type: MessageError, Error: err.Error()})
			return
		}
		c.setFilter(filter)
		h.reply(c, h.snapshotMessage(filter))

	default:
		h.reply(c, FeedMessage{Type: MessageError, Error: "unknown message type " + message.Type})
	}
}

func (h *MissionFeedHandler) reply(c *feedClient, msg FeedMessage) {
	select {
	case c.ctrl <- msg:
	case <-c.done:
	}
}

// writePump є єдиним записувачем у з'єднання.
// Події з версією, не новішою за надісланий знімок, пропускаються.
func (h *MissionFeedHandler) writePump(c *feedClient, initial FeedMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if err := h.write(c, initial); err != nil {
		return
	}
	sent := initial.Version

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-c.ctrl:
			if err := h.write(c, msg); err != nil {
				return
			}

		case event := <-c.send:
			if event.Version <= sent {
				continue
			}
			if err := h.write(c, h.changeMessage(event, c.currentFilter())); err != nil {
				return
			}
			sent = event.Version

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *MissionFeedHandler) write(c *feedClient, msg FeedMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		h.logger.Debug("Error sending message", "client_id", c.id, "error", err)
		return err
	}
	return nil
}

func (h *MissionFeedHandler) snapshotMessage(filter analytics.Filter) FeedMessage {
	return FeedMessage{
		Type:     MessageSnapshot,
		Version:  h.store.Version(),
		Filter:   filter,
		Missions: h.view(h.store.List(), filter),
	}
}

func (h *MissionFeedHandler) changeMessage(event ports.ChangeEvent, filter analytics.Filter) FeedMessage {
	return FeedMessage{
		Type:      MessageChange,
		Version:   event.Version,
		Operation: event.Operation,
		MissionID: event.MissionID,
		Filter:    filter,
		Missions:  h.view(event.Missions, filter),
	}
}

func (h *MissionFeedHandler) view(missions []domain.Mission, filter analytics.Filter) []domain.Mission {
	list := analytics.ListView(missions, filter, h.now())
	for i := range list {
		list[i] = list[i].WithStatusColor()
	}
	return list
}

func (h *MissionFeedHandler) setClientGauge(count int) {
	if h.metrics == nil {
		return
	}
	h.metrics.LiveClients.WithLabelValues("websocket").Set(float64(count))
}
