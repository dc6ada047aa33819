package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/diogo-cruz/aisafety"
)

// Ensure LoggingStore implements aisafety.OutputStore.
var _ aisafety.OutputStore = (*LoggingStore)(nil)

// LoggingStore wraps an OutputStore and logs every save.
type LoggingStore struct {
	next   aisafety.OutputStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next aisafety.OutputStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Save(ctx context.Context, out *aisafety.Output, path string) (written string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("save output",
			"publisher", out.Metadata.Publisher,
			"path", written,
			"sections", len(out.Sections()),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, out, path)
}
