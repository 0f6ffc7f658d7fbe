package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// normalizeText folds a string to NFC lowercase so that decomposed "ä" and
// precomposed "ä" compare equal.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// splitWords splits normalized text into letter/digit runs.
// "Nauta-sika 1,5kg" -> ["nauta", "sika", "1", "5kg"]
func splitWords(s string) []string {
	return strings.FieldsFunc(normalizeText(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// joinedWords is the canonical single-space form used for substring checks
func joinedWords(s string) string {
	return strings.Join(splitWords(s), " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// containsTerm reports whether term occurs in a name given as words and as
// their joined form. Phrases and words of four or more runes match as
// substrings so Finnish compounds ("meijerivoi", "voimapapu") are caught;
// shorter words must match a whole word.
func containsTerm(nameWords []string, joined, term string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(term, " ") || runeLen(term) >= 4 {
		return strings.Contains(joined, term)
	}
	for _, w := range nameWords {
		if w == term {
			return true
		}
	}
	return false
}

// headMatch reports whether word is trigger or a compound ending in trigger
// ("puuroriisi" ends in "riisi").
func headMatch(word, trigger string) bool {
	if word == trigger {
		return true
	}
	return runeLen(trigger) >= 3 && strings.HasSuffix(word, trigger)
}

func normalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		n := joinedWords(item)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
