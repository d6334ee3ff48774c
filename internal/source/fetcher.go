package source

import (
	"context"

	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/logging"
)

type Fetcher interface {
	Fetch(ctx context.Context, log logging.InternalLogger) ([]core.RegisteredService, error)
}
