package http

import (
	"github.com/nats-io/nats.go"

	"github.com/geolabel/geolabel/internal/adapters/valkey"
	"github.com/geolabel/geolabel/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Grid   *usecases.GridService
	Labels *usecases.LabelService
	NATS   *nats.Conn
	Cache  *valkey.Cache
}
