package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReason(t *testing.T) {
	reason, ok := normalizeReason("  spam event  ")
	assert.True(t, ok)
	assert.Equal(t, "spam event", reason)

	_, ok = normalizeReason("   ")
	assert.False(t, ok)

	_, ok = normalizeReason(strings.Repeat("a", 501))
	assert.False(t, ok)

	reason, ok = normalizeReason(strings.Repeat("a", 500))
	assert.True(t, ok)
	assert.Len(t, reason, 500)

	// The cap counts runes, so a 500-rune multibyte reason is accepted even
	// though it is longer in bytes.
	_, ok = normalizeReason(strings.Repeat("ậ", 500))
	assert.True(t, ok)

	_, ok = normalizeReason(strings.Repeat("ậ", 501))
	assert.False(t, ok)
}
