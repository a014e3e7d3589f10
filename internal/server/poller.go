package server

import (
	"context"

	"github.com/golf-alone/teetime-service/internal/poller"
)

// Poller defines the minimal catalog refresher behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
