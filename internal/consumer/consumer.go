// Package consumer contains interface of events consumer.
package consumer

import (
	"context"

	"github.com/gymblog/gymblog/internal/health"
)

// Consumer consumes post events published by any instance of the service.
type Consumer interface {
	health.Pinger

	Run(ctx context.Context) error
}
