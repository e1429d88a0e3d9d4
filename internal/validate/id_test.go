package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	valid := []string{"dQw4w9WgXcQ", "a", "A-Z_09", "___---"}
	for _, id := range valid {
		assert.NoError(t, VideoID(id), id)
	}

	invalid := []string{"", "abc/def", "id with space", "id?", "../etc/passwd", "日本語", "a.b"}
	for _, id := range invalid {
		assert.ErrorIs(t, VideoID(id), ErrInvalidIdentifier, id)
	}
}
