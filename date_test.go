package aisafety_test

import (
	"testing"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso date", "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 timestamp", "2024-06-01T10:00:00Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"short month", "Jun 1, 2024", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"short month with extra whitespace", "  Dec  19,   2024 ", time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC)},
		{"long month", "January 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := aisafety.ParseDate(tt.input)

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	t.Run("reports unparseable input", func(t *testing.T) {
		t.Parallel()

		_, err := aisafety.ParseDate("sometime last year")

		require.Error(t, err)
		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	})

	t.Run("reports empty input", func(t *testing.T) {
		t.Parallel()

		_, err := aisafety.ParseDate("   ")

		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	})

	t.Run("tries only the given parsers", func(t *testing.T) {
		t.Parallel()

		_, err := aisafety.ParseDate("2024-06-01", aisafety.ShortMonthDate)

		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	})
}

func TestFindDate(t *testing.T) {
	t.Parallel()

	t.Run("finds first embedded date", func(t *testing.T) {
		t.Parallel()

		got, err := aisafety.FindDate("Alignment\n\nPolicy Dec 19, 2024 and later Oct 29, 2024")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("reports missing date", func(t *testing.T) {
		t.Parallel()

		_, err := aisafety.FindDate("no dates here")

		assert.Equal(t, aisafety.ENOTFOUND, aisafety.ErrorCode(err))
	})

	t.Run("reports impossible date", func(t *testing.T) {
		t.Parallel()

		_, err := aisafety.FindDate("Published Feb 31, 2024")

		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	})
}
