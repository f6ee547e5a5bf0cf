package utils

import (
	"strings"
)

// Contains reports whether list holds s
func Contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// EmailLocalPart returns the part of an e-mail address before the @
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
