package mock_test

import (
	"context"
	"testing"

	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ aisafety.OutputStore = &mock.OutputStore{}
}

func TestOutputStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *aisafety.Output
		s := &mock.OutputStore{
			SaveFn: func(_ context.Context, out *aisafety.Output, path string) (string, error) {
				calledWith = out
				return "out/" + path, nil
			},
		}

		out := aisafety.NewOutput(aisafety.Metadata{BaseURL: "https://metr.org"})
		written, err := s.Save(context.Background(), out, "metr_org_data.json")

		require.NoError(t, err)
		assert.Equal(t, "out/metr_org_data.json", written)
		assert.Same(t, out, calledWith)
	})
}
