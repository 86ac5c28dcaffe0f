package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_IsUTCWithMicrosecondPrecision(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%1000)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1997-06-26", time.Date(1997, 6, 26, 0, 0, 0, 0, time.UTC)},
		{"1997-06-26T10:30:00Z", time.Date(1997, 6, 26, 10, 30, 0, 0, time.UTC)},
		{"1997-06-26T10:30:00+02:00", time.Date(1997, 6, 26, 8, 30, 0, 0, time.UTC)},
		{"1997-06-26T10:30:00", time.Date(1997, 6, 26, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseDate("26/06/1997")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestUniqueInt64s(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 5}, UniqueInt64s([]int64{5, 1, 2, 5, 1}))
	assert.NotNil(t, UniqueInt64s(nil))
	assert.Empty(t, UniqueInt64s(nil))
}

func TestWhereBuilder(t *testing.T) {
	var w WhereBuilder
	assert.Equal(t, "", w.SQL())
	assert.Equal(t, 1, w.Next())

	p := w.Arg("%x%")
	w.AnyOf("title ILIKE "+p, "description ILIKE "+p)
	w.And("author_id = " + w.Arg(int64(3)))

	assert.Equal(t, "WHERE (title ILIKE $1 OR description ILIKE $1) AND author_id = $2", w.SQL())
	assert.Equal(t, []any{"%x%", int64(3)}, w.Args())
	assert.Equal(t, 3, w.Next())

	args := w.Args()
	args[0] = "changed"
	assert.Equal(t, "%x%", w.Args()[0])
}
