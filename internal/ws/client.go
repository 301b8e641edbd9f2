package ws

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tastehub/api/internal/auth"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Subscribers only send control frames.
	maxInboundSize = 512
	sendQueueSize  = 64
)

// UserLookup resolves the account behind a token.
// Satisfied by *database.Queries.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// Client is one subscriber connection. Events arrive on send and are
// written one JSON object per frame.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	room string
	send chan []byte
}

// Handler upgrades GET /ws/orders?token=JWT into an order event feed.
// Admins join AdminRoom; customers join their own UserRoom.
type Handler struct {
	hub      *Hub
	secret   string
	users    UserLookup
	upgrader websocket.Upgrader
}

// NewHandler builds the feed endpoint. An empty origins list or "*"
// accepts any origin.
func NewHandler(hub *Hub, secret string, users UserLookup, origins []string) *Handler {
	h := &Handler{hub: hub, secret: secret, users: users}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(h.secret, token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.WithError(err).Warn("ws: upgrade failed")
		return
	}

	c := &Client{hub: h.hub, conn: conn, room: roomFor(user), send: make(chan []byte, sendQueueSize)}
	if !h.hub.join(c) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		conn.Close()
		return
	}
	h.hub.logger.WithFields(logrus.Fields{"room": c.room, "user_id": user.ID}).Debug("ws: subscriber joined")

	go c.writeLoop()
	go c.readLoop()
}

// roomFor picks the room from the stored role, not the token's.
func roomFor(u database.User) string {
	if u.Role == enum.UserRoleAdmin {
		return AdminRoom
	}
	return UserRoom(u.ID)
}

func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

// readLoop discards inbound data and keeps the read deadline fresh on pongs.
// It unregisters the client when the peer goes away.
func (c *Client) readLoop() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.WithError(err).WithField("room", c.room).Debug("ws: subscriber dropped")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				// Hub closed the queue: slow consumer or shutdown.
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
