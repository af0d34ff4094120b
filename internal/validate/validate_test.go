package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageValid(t *testing.T) {
	msg, err := Message("  hello there  ", 100)
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg)
}

func TestMessageEmpty(t *testing.T) {
	_, err := Message("", 100)
	assert.Error(t, err)
}

func TestMessageWhitespaceOnly(t *testing.T) {
	_, err := Message("   \t\n ", 100)
	assert.Error(t, err)
}

func TestMessageTooLong(t *testing.T) {
	_, err := Message(strings.Repeat("a", 101), 100)
	assert.Error(t, err)
}

func TestMessageLengthCountsCharacters(t *testing.T) {
	// 100 two-byte characters is exactly at the limit.
	msg, err := Message(strings.Repeat("é", 100), 100)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), msg)

	_, err = Message(strings.Repeat("é", 101), 100)
	assert.Error(t, err)
}

func TestUserIDValid(t *testing.T) {
	for _, id := range []string{"alice", "user-42", "cli_user", "A1-b2_C3"} {
		got, err := UserID(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, got)
	}
}

func TestUserIDInvalid(t *testing.T) {
	cases := []string{"", "   ", "bad user", "semi;colon", "dot.ted", "emoji🙂", strings.Repeat("x", 256)}
	for _, id := range cases {
		_, err := UserID(id)
		assert.Error(t, err, "expected rejection for %q", id)
	}
}

func TestUserIDMaxLength(t *testing.T) {
	id := strings.Repeat("x", 255)
	got, err := UserID(id)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSanitizeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;&#x2F;b&gt;", SanitizeHTML("<b>hi</b>"))
	assert.Equal(t, "a &amp; b", SanitizeHTML("a & b"))
}
