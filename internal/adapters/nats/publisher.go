package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
// Downstream consumers (imagery export, training triggers) pick label
// events off the LABEL_EVENTS stream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the label event stream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "LABEL_EVENTS",
		Subjects:  []string{"labels.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

type labelsUpdatedEvent struct {
	ProjectID    int `json:"project_id"`
	ChipCount    int `json:"chip_count"`
	PolygonCount int `json:"polygon_count"`
}

type chipEvent struct {
	ProjectID int          `json:"project_id"`
	Chip      *domain.Chip `json:"chip,omitempty"`
	ChipID    string       `json:"chip_id"`
}

type polygonEvent struct {
	ProjectID int                       `json:"project_id"`
	Polygon   *domain.AnnotationPolygon `json:"polygon,omitempty"`
	PolygonID string                    `json:"polygon_id"`
}

func (p *Publisher) PublishLabelsUpdated(ctx context.Context, projectID, chipCount, polygonCount int) error {
	return p.publish("labels.updated."+strconv.Itoa(projectID), labelsUpdatedEvent{
		ProjectID:    projectID,
		ChipCount:    chipCount,
		PolygonCount: polygonCount,
	})
}

func (p *Publisher) PublishLabelsCleared(ctx context.Context, projectID int) error {
	return p.publish("labels.cleared."+strconv.Itoa(projectID), labelsUpdatedEvent{ProjectID: projectID})
}

func (p *Publisher) PublishChipCreated(ctx context.Context, projectID int, chip *domain.Chip) error {
	return p.publish("labels.chip.created."+strconv.Itoa(projectID), chipEvent{
		ProjectID: projectID,
		Chip:      chip,
		ChipID:    chip.ID,
	})
}

func (p *Publisher) PublishChipDeleted(ctx context.Context, projectID int, chipID string) error {
	return p.publish("labels.chip.deleted."+strconv.Itoa(projectID), chipEvent{
		ProjectID: projectID,
		ChipID:    chipID,
	})
}

func (p *Publisher) PublishPolygonCreated(ctx context.Context, projectID int, poly *domain.AnnotationPolygon) error {
	return p.publish("labels.polygon.created."+strconv.Itoa(projectID), polygonEvent{
		ProjectID: projectID,
		Polygon:   poly,
		PolygonID: poly.ID,
	})
}

func (p *Publisher) PublishPolygonDeleted(ctx context.Context, projectID int, polygonID string) error {
	return p.publish("labels.polygon.deleted."+strconv.Itoa(projectID), polygonEvent{
		ProjectID: projectID,
		PolygonID: polygonID,
	})
}

func (p *Publisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
