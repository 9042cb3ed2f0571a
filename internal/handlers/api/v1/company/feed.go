package company

import (
	"net/http"
	"time"

	"jobboard/internal/contextutils"
	"jobboard/internal/events"
	"jobboard/internal/response"
	"jobboard/internal/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	feedBufferSize = 16
)

// Subscriber hands out per-company event channels
type Subscriber interface {
	Subscribe(companyID string, buffer int) (<-chan events.Event, func())
}

// Feed streams application events to the websocket connections of a company
type Feed struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewFeed creates the company live feed. An empty origin list accepts
// any origin.
func NewFeed(subscriber Subscriber, allowedOrigins []string, logger *zap.Logger) *Feed {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Feed{
		subscriber: subscriber,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stream upgrades the request and forwards events until the client leaves
// @Summary Live application events
// @Description Websocket stream of application.submitted and application.status_changed events
// @Tags company
// @Security CompanyToken
// @Router /api/company/stream [get]
func (c *CompanyController) Stream(w http.ResponseWriter, r *http.Request) {
	if c.feed == nil {
		response.QuickError(w, r, services.NewServiceUnavailableError("Live feed is not available", nil))
		return
	}
	c.feed.ServeHTTP(w, r)
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	companyID := contextutils.GetCompanyID(r.Context())
	logger := contextutils.GetLogger(r.Context(), f.logger)

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Info("Websocket upgrade failed", zap.Error(err))
		return
	}

	stream, cancel := f.subscriber.Subscribe(companyID, feedBufferSize)
	logger.Info("Live feed connected")

	done := make(chan struct{})
	go f.readPump(conn, done)
	f.writePump(conn, stream, done)

	cancel()
	conn.Close()
	logger.Info("Live feed disconnected")
}

// readPump discards client messages and closes done when the peer goes away
func (f *Feed) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

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

func (f *Feed) writePump(conn *websocket.Conn, stream <-chan events.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-stream:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
