package mock

import (
	"context"

	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.OutputStore = (*OutputStore)(nil)

// OutputStore is a mock implementation of aisafety.OutputStore.
type OutputStore struct {
	SaveFn func(ctx context.Context, out *aisafety.Output, path string) (string, error)
}

func (s *OutputStore) Save(ctx context.Context, out *aisafety.Output, path string) (string, error) {
	return s.SaveFn(ctx, out, path)
}
