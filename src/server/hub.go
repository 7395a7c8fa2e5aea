package server

import (
	"encoding/json"
	"net/http"
	"time"

	"sales-observer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// subscription is a client asking for a new set of views.
type subscription struct {
	client *Client
	views  []string
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. It alone writes to client.send and
// closes it, so no sender can race a close.
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setConnections(len(s.clients))
			// Send current state on connect
			s.deliver(client, s.messageFor(client, "INITIAL"))

		case client := <-s.unregister:
			s.drop(client)

		case sub := <-s.subscribe:
			if _, ok := s.clients[sub.client]; !ok {
				continue
			}
			sub.client.views = sub.views
			s.deliver(sub.client, s.messageFor(sub.client, "INITIAL"))

		case report := <-s.broadcast:
			for client := range s.clients {
				s.deliver(client, s.reportMessage(client, report, "UPDATE"))
			}

		case <-s.done:
			for client := range s.clients {
				s.drop(client)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------

// deliver never blocks the hub: a client too slow to drain its buffer is
// disconnected.
func (s *APIServer) deliver(client *Client, msg *models.MLatestData) {
	select {
	case client.send <- msg:
	default:
		s.Logger.Warning("Websocket client too slow, disconnecting")
		s.drop(client)
	}
}

func (s *APIServer) drop(client *Client) {
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
		s.setConnections(len(s.clients))
	}
}

func (s *APIServer) setConnections(n int) {
	s.stateMutex.Lock()
	s.connections = n
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------

func (s *APIServer) messageFor(client *Client, typ string) *models.MLatestData {
	report, err := s.Service.Latest()
	if err != nil {
		return &models.MLatestData{Type: typ, Views: client.views, Timestamp: time.Now().UTC().Unix()}
	}
	return s.reportMessage(client, report, typ)
}

func (s *APIServer) reportMessage(client *Client, report *models.MReport, typ string) *models.MLatestData {
	return &models.MLatestData{
		Type:      typ,
		Report:    filterReport(report, client.views),
		Views:     client.views,
		Timestamp: report.GeneratedAt.Unix(),
	}
}

// -----------------------------------------------------------------------------
// Report publishing
// -----------------------------------------------------------------------------

// Publish queues a fresh report for every websocket client. When the queue is
// full the report is dropped; clients catch up with the next one.
func (s *APIServer) Publish(report *models.MReport) {
	select {
	case s.broadcast <- report:
	default:
		s.Logger.Warning("Broadcast queue full, dropping report %s", report.RunID)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:   s,
		conn:  conn,
		send:  make(chan *models.MLatestData, 16),
		views: append([]string(nil), models.Views...),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies a subscribe command. Malformed JSON closes the
// connection; unknown views are answered with an ERROR message.
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	views, err := normalizeViews(cmd.Views)
	if err != nil {
		// the error reply goes straight to the socket; the hub owns send
		client.writeDirect(&models.MLatestData{Type: "ERROR", Error: err.Error(), Timestamp: time.Now().UTC().Unix()})
		return
	}

	select {
	case s.subscribe <- subscription{client: client, views: views}:
	case <-s.done:
	}
}
