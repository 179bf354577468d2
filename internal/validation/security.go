// Package validation provides input security validation for user payloads.
package validation

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Security validation errors.
var (
	ErrControlCharacter = errors.New("input contains control characters")
	ErrBlockedCategory  = errors.New("input contains blocked unicode category")
	ErrMixedScripts     = errors.New("input mixes confusable scripts")
	ErrInvisibleRune    = errors.New("input contains invisible characters")
)

// Unicode categories rejected in name fields. Control, format (zero-width,
// bidi overrides), surrogate and private-use characters have no place in
// human names and are common smuggling vectors.
var blockedCategories = []*unicode.RangeTable{
	unicode.Cc,
	unicode.Cf,
	unicode.Cs,
	unicode.Co,
}

// Invisible runes not covered by the category check.
var invisibleRunes = map[rune]bool{
	0x00A0: true, // no-break space
	0x2028: true, // line separator
	0x2029: true, // paragraph separator
	0x3000: true, // ideographic space
}

// ValidateNameField validates a user-supplied name field against unicode
// smuggling and homograph tricks. Input is expected to have gone through
// NormalizeField already, so combining-character variants of the same name
// arrive here in a single canonical form.
func ValidateNameField(input string) error {
	for _, r := range input {
		if r < 0x20 || r == 0x7F {
			return ErrControlCharacter
		}
		for _, table := range blockedCategories {
			if unicode.Is(table, r) {
				return ErrBlockedCategory
			}
		}
		if invisibleRunes[r] {
			return ErrInvisibleRune
		}
	}

	if mixesConfusableScripts(input) {
		return ErrMixedScripts
	}

	return nil
}

// mixesConfusableScripts detects Latin/Cyrillic and Latin/Greek mixing inside
// a single field, the classic homograph attack shape.
func mixesConfusableScripts(input string) bool {
	var hasLatin, hasCyrillic, hasGreek bool

	for _, r := range input {
		switch {
		case unicode.Is(unicode.Latin, r):
			hasLatin = true
		case unicode.Is(unicode.Cyrillic, r):
			hasCyrillic = true
		case unicode.Is(unicode.Greek, r):
			hasGreek = true
		}
	}

	return hasLatin && (hasCyrillic || hasGreek)
}

// NormalizeField trims surrounding whitespace and applies NFC normalization.
func NormalizeField(input string) string {
	return norm.NFC.String(strings.TrimSpace(input))
}
