package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "https://avatars.example/1.png", AvatarURL("https://avatars.example/1.png", "ada@example.com", 0))
	assert.Equal(t,
		"https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=200&d=mp",
		AvatarURL("", "  MyEmailAddress@example.com ", 0),
	)
	assert.Contains(t, AvatarURL("", "ada@example.com", 64), "s=64")
	assert.Empty(t, AvatarURL("", "", 0))
}
