package http

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/geolabel/geolabel/internal/pkg/metrics"
)

// wsMessage is sent from client to scope the label event feed.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Project int    `json:"project"` // project id filter (0 = all projects)
}

// projectSubjects returns the NATS subjects carrying a project's label
// events. Chip and polygon events use a four-token subject, so a single
// wildcard cannot cover both shapes.
func projectSubjects(project int) []string {
	if project == 0 {
		return []string{"labels.>"}
	}
	p := strconv.Itoa(project)
	return []string{
		"labels.updated." + p,
		"labels.cleared." + p,
		"labels.chip.*." + p,
		"labels.polygon.*." + p,
	}
}

// WebSocketHandler upgrades to WebSocket and relays label events from
// NATS to connected clients. Clients send JSON:
// {"action":"subscribe","project":7}. By default every project's events
// are relayed.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) error {
			if _, exists := subs[subject]; exists {
				return nil
			}
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		// Relay everything until the client narrows the feed
		for _, subject := range projectSubjects(0) {
			if err := subscribe(subject); err != nil {
				slog.Error("ws default subscribe failed", "error", err)
				return
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				failed := false
				for _, subject := range projectSubjects(m.Project) {
					if err := subscribe(subject); err != nil {
						_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
						failed = true
						break
					}
				}
				if !failed {
					_ = writeJSON(map[string]interface{}{"status": "subscribed", "project": m.Project})
				}

			case "unsubscribe":
				removed := false
				for _, subject := range projectSubjects(m.Project) {
					if s, exists := subs[subject]; exists {
						_ = s.Unsubscribe()
						delete(subs, subject)
						removed = true
					}
				}
				if removed {
					_ = writeJSON(map[string]interface{}{"status": "unsubscribed", "project": m.Project})
				} else {
					_ = writeJSON(map[string]interface{}{"error": "not subscribed", "project": m.Project})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
