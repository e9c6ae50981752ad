package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already open for the API; the token is the gate.
		return true
	},
}

var subscribable = map[string]bool{
	TableMessages:      true,
	TableConversations: true,
	TableSchedule:      true,
	TableSessions:      true,
}

type client struct {
	conn *websocket.Conn
	sub  *Subscription
	log  *zap.Logger
}

// Handler upgrades an authenticated request and streams change events for the
// tables named in ?tables=messages,conversations.
type Handler struct {
	broker *Broker
	log    *zap.Logger
}

func NewHandler(b *Broker, log *zap.Logger) *Handler {
	return &Handler{broker: b, log: log.Named("ws")}
}

// Subscribe godoc
// @Summary Subscribe to change events
// @Description Upgrades to a websocket that receives {table, action, id} notifications. Pass the access token as ?access_token= when headers cannot be set.
// @Tags Realtime
// @Param tables query string false "Comma separated tables" default(messages)
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /realtime [get]
func (h *Handler) Subscribe(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	tables := parseTables(c.DefaultQuery("tables", TableMessages))
	if len(tables) == 0 {
		responses.BadRequest(c, "no subscribable tables requested")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := &client{conn: conn, sub: h.broker.Subscribe(p.UserID, tables...), log: h.log}
	go cl.writePump()
	go cl.readPump()
}

func parseTables(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if subscribable[t] && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// readPump only services control frames; when the peer goes away it releases
// the subscription, which in turn stops writePump.
func (c *client) readPump() {
	defer c.sub.Close()
	c.conn.SetReadLimit(8 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.sub.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.sub.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.sub.Close()
				return
			}
		}
	}
}
