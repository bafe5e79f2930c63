package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const hashPrefixLen = 12

// sentinel replaces an entity's own name before structure hashing so that a
// pure rename (same body, different name) still hashes identically.
const sentinel = "___"

// SignatureHash hashes the canonical text of an entity. Trailing whitespace
// on each line is trimmed before hashing (reformatting below the statement
// level must not change the signature hash); internal whitespace is kept.
func SignatureHash(canonicalText string) string {
	return hashPrefix(trimTrailingWhitespace(canonicalText))
}

// StructureHash hashes the canonical text with every occurrence of name
// replaced by a fixed sentinel first, so renames (and only renames) leave
// it unchanged.
func StructureHash(canonicalText, name string) string {
	text := trimTrailingWhitespace(canonicalText)
	if name != "" {
		text = strings.ReplaceAll(text, name, sentinel)
	}
	return hashPrefix(text)
}

func hashPrefix(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:hashPrefixLen]
}

func trimTrailingWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}
