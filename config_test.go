package aisafety_test

import (
	"testing"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts defaults", func(t *testing.T) {
		t.Parallel()

		cfg := aisafety.DefaultConfig()

		assert.NoError(t, cfg.Validate())
	})

	t.Run("accumulates every invalid field", func(t *testing.T) {
		t.Parallel()

		cfg := aisafety.Config{
			Timeout:  -time.Second,
			MaxPages: -1,
			Retries:  99,
			LogLevel: "loud",
		}

		err := cfg.Validate()

		require.Error(t, err)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 4)
		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(merr.Errors[0]))
	})

	t.Run("rejects negative publisher delay", func(t *testing.T) {
		t.Parallel()

		cfg := aisafety.Config{
			Publishers: map[string]aisafety.PublisherConfig{"metr": {Delay: -time.Second}},
		}

		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_DelayFor(t *testing.T) {
	t.Parallel()

	cfg := aisafety.Config{
		Delay: 500 * time.Millisecond,
		Publishers: map[string]aisafety.PublisherConfig{
			"lakera": {Delay: 2 * time.Second},
		},
	}

	assert.Equal(t, 2*time.Second, cfg.DelayFor("lakera", time.Second))
	assert.Equal(t, 500*time.Millisecond, cfg.DelayFor("metr", 200*time.Millisecond))

	var empty aisafety.Config
	assert.Equal(t, 200*time.Millisecond, empty.DelayFor("metr", 200*time.Millisecond))
}
