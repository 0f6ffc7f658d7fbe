package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ruokahinta/backend/internal/domain"
)

const defaultMaxTerms = 8

// Matches quantity tokens left after word splitting: "500g", "1kg", "2dl", "12"
var quantityTokenPattern = regexp.MustCompile(`^\d+[\p{L}]*$`)

// parentheticalPattern matches descriptions like "(n. 400 g)"
var parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// unitWords are measure and package units in Finnish and English
var unitWords = map[string]bool{
	"kg": true, "g": true, "gr": true, "mg": true, "l": true, "dl": true, "cl": true, "ml": true,
	"kpl": true, "pkt": true, "prk": true, "rs": true, "tl": true, "rkl": true, "mm": true,
	"pussi": true, "purkki": true, "paketti": true, "tlk": true, "ps": true,
	"oz": true, "lb": true, "lbs": true, "pcs": true, "pc": true, "tsp": true, "tbsp": true,
	"cup": true, "cups": true, "pack": true, "x": true,
}

// SuffixRule derives a lexical variant by swapping a word ending.
// The stem left after removing Suffix must have at least MinStem runes.
type SuffixRule struct {
	Suffix      string
	Replacement string
	MinStem     int
}

// suffixRules are small per-language declension rules
var suffixRules = map[string][]SuffixRule{
	"fi": {
		{Suffix: "t", Replacement: "", MinStem: 3},   // plural -> singular: jauhot -> jauho
		{Suffix: "n", Replacement: "", MinStem: 3},   // genitive: riisin -> riisi
		{Suffix: "a", Replacement: "at", MinStem: 2}, // singular -> plural: pasta -> pastat
		{Suffix: "ä", Replacement: "ät", MinStem: 2},
	},
	"en": {
		{Suffix: "ies", Replacement: "y", MinStem: 2}, // berries -> berry
		{Suffix: "oes", Replacement: "o", MinStem: 2}, // tomatoes -> tomato
		{Suffix: "s", Replacement: "", MinStem: 3},    // onions -> onion
	},
}

// TermExtractorConfig holds configuration for the term extractor
type TermExtractorConfig struct {
	Languages     []string
	StopModifiers map[string][]string
	Synonyms      map[string][]string
	MaxTerms      int
}

// TermExtractor turns a raw ingredient description into ordered search terms
type TermExtractor struct {
	stopWords map[string]bool
	rules     []SuffixRule
	synonyms  map[string][]string
	maxTerms  int
	logger    *zap.Logger
}

// NewTermExtractor creates an extractor for the configured languages,
// Finnish and English when none are given.
func NewTermExtractor(config TermExtractorConfig, logger *zap.Logger) *TermExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	languages := config.Languages
	if len(languages) == 0 {
		languages = []string{"fi", "en"}
	}

	e := &TermExtractor{
		stopWords: make(map[string]bool),
		synonyms:  make(map[string][]string, len(config.Synonyms)),
		maxTerms:  config.MaxTerms,
		logger:    logger,
	}
	if e.maxTerms <= 0 {
		e.maxTerms = defaultMaxTerms
	}

	seen := make(map[string]bool, len(languages))
	for _, lang := range languages {
		lang = normalizeText(lang)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		e.addLanguage(lang, config.StopModifiers)
	}

	for key, values := range config.Synonyms {
		e.synonyms[joinedWords(key)] = normalizeList(values)
	}
	return e
}

func (e *TermExtractor) addLanguage(lang string, stopModifiers map[string][]string) {
	for _, word := range stopModifiers[lang] {
		for _, w := range splitWords(word) {
			e.stopWords[w] = true
		}
	}
	e.rules = append(e.rules, suffixRules[lang]...)
}

// Extract returns the search terms for an ingredient in priority order:
// the cleaned phrase, the most salient word, declined variants of both,
// configured synonyms and finally a multi-word fallback that keeps the
// descriptive modifiers. Terms are unique case-insensitively. Extract never
// fails; input with no usable words yields a single empty term.
func (e *TermExtractor) Extract(rawName string, quantity *float64, unit string) []domain.SearchTerm {
	extraUnits := splitWords(unit)
	name := parentheticalPattern.ReplaceAllString(rawName, " ")

	var remaining []string // quantities and units stripped
	var content []string   // modifiers and stop words stripped too
	for _, word := range splitWords(name) {
		if e.isQuantityToken(word, extraUnits) {
			continue
		}
		if runeLen(word) < 2 {
			continue
		}
		remaining = append(remaining, word)
		if !e.stopWords[word] {
			content = append(content, word)
		}
	}
	if len(content) == 0 {
		content = remaining
	}
	if len(content) == 0 {
		e.logger.Debug("no search terms", zap.String("input", rawName))
		return []domain.SearchTerm{{Text: "", Priority: domain.PriorityPhrase}}
	}

	builder := newTermBuilder(e.maxTerms)
	phrase := strings.Join(content, " ")
	salient := longestWord(content)

	builder.add(phrase, domain.PriorityPhrase)
	builder.add(salient, domain.PrioritySalient)

	for _, variant := range e.variants(content[len(content)-1]) {
		builder.add(strings.Join(append(append([]string{}, content[:len(content)-1]...), variant), " "), domain.PriorityVariant)
	}
	for _, variant := range e.variants(salient) {
		builder.add(variant, domain.PriorityVariant)
	}

	for _, synonym := range e.synonyms[phrase] {
		builder.add(synonym, domain.PrioritySynonym)
	}
	for _, word := range content {
		for _, synonym := range e.synonyms[word] {
			builder.add(synonym, domain.PrioritySynonym)
		}
	}

	if len(remaining) >= 2 {
		builder.add(strings.Join(remaining, " "), domain.PriorityFallback)
	}

	terms := builder.terms()
	e.logger.Debug("extracted search terms",
		zap.String("input", rawName),
		zap.Any("quantity", quantity),
		zap.String("unit", unit),
		zap.Int("count", len(terms)),
		zap.Any("terms", terms),
	)
	return terms
}

func (e *TermExtractor) isQuantityToken(word string, extraUnits []string) bool {
	if isDigits(word) || quantityTokenPattern.MatchString(word) || unitWords[word] {
		return true
	}
	return containsString(extraUnits, word)
}

// variants applies every matching suffix rule to word
func (e *TermExtractor) variants(word string) []string {
	var out []string
	runes := []rune(word)
	for _, rule := range e.rules {
		if !strings.HasSuffix(word, rule.Suffix) {
			continue
		}
		if rule.Suffix == "s" && strings.HasSuffix(word, "ss") {
			continue
		}
		stem := string(runes[:len(runes)-runeLen(rule.Suffix)])
		if runeLen(stem) < rule.MinStem {
			continue
		}
		out = append(out, stem+rule.Replacement)
	}
	return out
}

// longestWord returns the longest word by runes, the first on ties
func longestWord(words []string) string {
	best := ""
	for _, w := range words {
		if runeLen(w) > runeLen(best) {
			best = w
		}
	}
	return best
}

// termBuilder collects unique terms in insertion order up to a limit
type termBuilder struct {
	limit int
	seen  map[string]bool
	list  []domain.SearchTerm
}

func newTermBuilder(limit int) *termBuilder {
	return &termBuilder{limit: limit, seen: make(map[string]bool)}
}

func (b *termBuilder) add(text string, priority int) {
	key := joinedWords(text)
	if key == "" || b.seen[key] || len(b.list) >= b.limit {
		return
	}
	b.seen[key] = true
	b.list = append(b.list, domain.SearchTerm{Text: key, Priority: priority})
}

func (b *termBuilder) terms() []domain.SearchTerm {
	return b.list
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
