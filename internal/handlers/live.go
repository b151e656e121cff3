package handlers

import (
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"storefront/internal/models"
	"storefront/internal/search"
)

const liveWriteWait = 10 * time.Second

type liveInbound struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

type liveOutbound struct {
	Type   string         `json:"type"`
	Query  string         `json:"query,omitempty"`
	Groups *search.Groups `json:"groups,omitempty"`
	Cart   *models.Cart   `json:"cart,omitempty"`
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	upgrader := websocket.Upgrader{}
	if len(allowedOrigins) == 0 {
		return upgrader
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			return true
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	}
	return upgrader
}

// Live streams search suggestions and cart snapshots over a websocket.
// Keystrokes arrive as {"type":"search","query":...} and are debounced.
func Live(allowedOrigins []string) gin.HandlerFunc {
	upgrader := newUpgrader(allowedOrigins)

	return func(c *gin.Context) {
		const route = "GET /live"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[%s] upgrade failed: %v", route, err)
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		send := func(msg liveOutbound) {
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("[%s] write failed: %v", route, err)
			}
		}

		box := search.NewBox(sess.Client, search.DebounceDelay, func(result search.Result) {
			groups := result.Groups
			send(liveOutbound{Type: "suggestions", Query: result.Query, Groups: &groups})
		})
		defer box.Close()

		updates, cancel := sess.Cart.Subscribe()
		defer cancel()
		go func() {
			for cart := range updates {
				send(liveOutbound{Type: "cart", Cart: &cart})
			}
		}()

		initial := sess.Cart.Snapshot()
		send(liveOutbound{Type: "cart", Cart: &initial})

		for {
			var msg liveInbound
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[%s] read failed: %v", route, err)
				}
				return
			}
			switch msg.Type {
			case "search":
				box.Type(msg.Query)
			default:
				log.Printf("[%s] ignoring message type %q", route, msg.Type)
			}
		}
	}
}
