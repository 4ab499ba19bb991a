package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(original))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.CreatedAt.Equal(original.CreatedAt))
	assert.Equal(t, original.ID, parsed.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	cursor, err := ParseCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	_, err = ParseCursor("!!!")
	assert.Error(t, err)

	_, err = ParseCursor("bm9waXBl")
	assert.Error(t, err)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+5))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, 8, LimitWithBuffer(7))
}

func TestTrim(t *testing.T) {
	page, more := Trim([]int{1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, page)
	assert.True(t, more)

	page, more = Trim([]int{1}, 2)
	assert.Equal(t, []int{1}, page)
	assert.False(t, more)
}
