package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/realtime/domain"
	"github.com/ridloal/meoris-storefront/internal/realtime/service"
)

const (
	ClientIDHeader = "X-Client-ID"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Rows of these tables belong to one user. They are only streamed through a user_id filter
// naming the subscriber.
var userScopedTables = map[string]bool{"keranjang": true, "favorit": true}

type RealtimeHandler struct {
	hub      *service.Hub
	upgrader websocket.Upgrader
	userID   func(*gin.Context) string
}

// NewRealtimeHandler serves the change feed. userID returns the authenticated user of a request.
func NewRealtimeHandler(hub *service.Hub, userID func(*gin.Context) string) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are enforced by the CORS layer and the bearer token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		userID: userID,
	}
}

func (h *RealtimeHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/realtime", auth, h.Subscribe)
}

// Subscribe upgrades to a websocket and streams events matching ?table=&filter=.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("table"), c.Query("filter"))
	if err != nil {
		httpx.BadRequest(c, err.Error())
		return
	}
	if msg := h.authorize(filter, h.userID(c)); msg != "" {
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Realtime: upgrade failed", err)
		return
	}
	sub := h.hub.Subscribe(filter)
	logger.Info("Realtime: client subscribed", logger.Fields{"filter": filter.String()})

	go readPump(conn, sub)
	writePump(conn, sub)
}

// authorize returns why userID may not subscribe with f, or "" when it may.
func (h *RealtimeHandler) authorize(f domain.Filter, userID string) string {
	switch {
	case userScopedTables[f.Table]:
		if f.Column != "user_id" || f.Value != userID {
			return "subscriptions on " + f.Table + " must filter by user_id=eq.<your id>"
		}
	case f.Column == "user_id" && f.Value != userID:
		return "filter must target the authenticated user"
	case f.Column == "" && f.Table != "produk":
		return "unfiltered subscriptions are only allowed on produk"
	}
	return ""
}

// readPump discards client messages and ends the subscription when the peer goes away.
func readPump(conn *websocket.Conn, sub *service.Subscription) {
	defer sub.Close()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *service.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
	}()
	for {
		select {
		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("Realtime: write failed, dropping client", logger.Fields{"filter": sub.Filter().String()})
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientOrigin copies the X-Client-ID header into the request context so services can tag
// the events they publish.
func ClientOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(ClientIDHeader); id != "" {
			c.Request = c.Request.WithContext(service.WithOrigin(c.Request.Context(), id))
		}
		c.Next()
	}
}
