package web

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
)

const writeTimeout = 5 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser clients)
// and browser requests whose Origin host exactly matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Host, strings.TrimSpace(r.Host))
}

// wsSurface is one browser tab attached to the bridge.
type wsSurface struct {
	id   string
	conn *websocket.Conn

	mu   sync.Mutex
	once sync.Once
}

func (c *wsSurface) Send(msg bridge.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// Reveal cannot raise a browser tab; the page is already live.
func (c *wsSurface) Reveal() {}

func (c *wsSurface) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "replaced"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		err = c.conn.Close()
		events.Bridge.Connection(c.id, "closed")
	})
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	surface := &wsSurface{id: uuid.NewString(), conn: conn}
	events.Bridge.Connection(surface.id, "open")
	defer func() {
		s.bridge.Detach(surface)
		_ = surface.Close()
	}()

	s.bridge.Attach(surface)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warnf("websocket %s: %v", surface.id, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		in, err := bridge.DecodeInbound(data)
		if err != nil {
			logging.Warnf("websocket %s: %v", surface.id, err)
			continue
		}
		s.bridge.Deliver(in)
	}
}
