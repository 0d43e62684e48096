package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const defaultAvatarSize = 200

// AvatarURL returns the provider avatar when one is given and otherwise the
// Gravatar for email. Without either it returns "".
func AvatarURL(providerAvatar, email string, size int) string {
	if providerAvatar != "" {
		return providerAvatar
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	if size <= 0 {
		size = defaultAvatarSize
	}
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", md5.Sum([]byte(email)), size)
}
