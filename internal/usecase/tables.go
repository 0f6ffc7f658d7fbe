package usecase

import (
	"github.com/ruokahinta/backend/internal/domain"
)

// CategoryRule describes one product class.
//
// Triggers are words that identify the class in an ingredient or product name.
// Exclusions are words that mark a product as a different class despite lexical
// overlap (snacks, ready meals, compound products). Aliases are catalog category
// names that map onto the rule. Rules sharing a Group boost each other.
// Generic rules apply to every request except those hinted with the rule's own
// category.
type CategoryRule struct {
	Triggers   []string `yaml:"triggers" json:"triggers"`
	Exclusions []string `yaml:"exclusions" json:"exclusions"`
	Aliases    []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Group      string   `yaml:"group,omitempty" json:"group,omitempty"`
	Generic    bool     `yaml:"generic,omitempty" json:"generic,omitempty"`
}

// MatchingTables is the static data behind term extraction and filtering.
type MatchingTables struct {
	Categories    map[domain.Category]CategoryRule `yaml:"categories"`
	Synonyms      map[string][]string             `yaml:"synonyms"`
	StopModifiers map[string][]string             `yaml:"stop_modifiers"`
}

// Merge returns a copy of t with every entry of other added or replacing the
// entry with the same key.
func (t MatchingTables) Merge(other MatchingTables) MatchingTables {
	merged := MatchingTables{
		Categories:    make(map[domain.Category]CategoryRule, len(t.Categories)+len(other.Categories)),
		Synonyms:      make(map[string][]string, len(t.Synonyms)+len(other.Synonyms)),
		StopModifiers: make(map[string][]string, len(t.StopModifiers)+len(other.StopModifiers)),
	}
	for k, v := range t.Categories {
		merged.Categories[k] = v
	}
	for k, v := range other.Categories {
		merged.Categories[domain.NormalizeCategory(string(k))] = v
	}
	for k, v := range t.Synonyms {
		merged.Synonyms[k] = v
	}
	for k, v := range other.Synonyms {
		merged.Synonyms[normalizeText(k)] = v
	}
	for k, v := range t.StopModifiers {
		merged.StopModifiers[k] = v
	}
	for k, v := range other.StopModifiers {
		merged.StopModifiers[normalizeText(k)] = append(append([]string{}, merged.StopModifiers[normalizeText(k)]...), v...)
	}
	return merged
}

// DefaultTables returns the built-in Finnish/English tables
func DefaultTables() MatchingTables {
	return MatchingTables{
		Categories: map[domain.Category]CategoryRule{
			"rice": {
				Triggers: []string{"riisi", "rice", "basmati", "jasmiiniriisi"},
				Exclusions: []string{
					"välipala", "keksi", "murokeksi", "vadelma", "hedelmä", "kakku", "kebab", "ateria",
					"piirakka", "snack", "crisps", "cracker", "cake", "pudding", "meal",
				},
				Aliases: []string{"riisi", "riisit"},
				Group:   "grain",
			},
			"pasta": {
				Triggers:   []string{"pasta", "makaroni", "spagetti", "spaghetti", "penne"},
				Exclusions: []string{"ateria", "laatikko", "kastike", "salaatti", "sauce", "salad", "meal"},
				Group:      "grain",
			},
			"breadcrumbs": {
				Triggers:   []string{"korppujauho", "breadcrumb", "panko"},
				Exclusions: []string{"leivitetty", "breaded"},
				Group:      "grain",
			},
			"flour": {
				Triggers:   []string{"jauhot", "jauho", "flour", "vehnäjauho"},
				Exclusions: []string{"korppujauho", "leivos", "keksi", "pulla", "cookie"},
				Group:      "grain",
			},
			"butter": {
				Triggers: []string{"voi", "butter", "margariini"},
				Exclusions: []string{
					"voima", "papu", "muro", "kuohuviini", "avokaado", "maapähkinä", "voileipä",
					"power", "bean", "cereal", "sparkling", "avocado", "peanut",
				},
				Group: "dairy",
			},
			"cheese": {
				Triggers: []string{"juusto", "cheese", "parmesaani", "parmesan", "mozzarella", "cheddar", "gouda", "edam"},
				Exclusions: []string{
					"sipsi", "naksu", "kakku", "piirakka", "kastike",
					"chips", "snack", "cake", "sauce",
				},
				Group: "dairy",
			},
			"milk": {
				Triggers:   []string{"maito", "milk"},
				Exclusions: []string{"suklaa", "jäätelö", "kaakao", "chocolate", "ice cream", "cocoa"},
				Aliases:    []string{"maidot"},
				Group:      "dairy",
			},
			"cream": {
				Triggers:   []string{"kerma", "ruokakerma", "cream"},
				Exclusions: []string{"jäätelö", "kakku", "leivos", "ice cream", "cake"},
				Group:      "dairy",
			},
			"oil": {
				Triggers:   []string{"öljy", "rypsiöljy", "oliiviöljy", "oil", "olive oil"},
				Exclusions: []string{"peruna", "pakaste", "eines", "ateria", "tonnikala", "sardiini", "chips", "tuna", "sardine"},
				Group:      "pantry",
			},
			"salt": {
				Triggers:   []string{"suola", "keittosuola", "merisuola", "salt"},
				Exclusions: []string{"margariini", "pakaste", "papu", "peruna", "pähkinä", "sipsi", "kurkku", "chips", "crisps", "nuts", "pickle"},
				Group:      "spice",
			},
			"pepper": {
				Triggers:   []string{"pippuri", "mustapippuri", "pepper", "black pepper"},
				Exclusions: []string{"peruna", "pakaste", "eines", "ateria", "pihvi", "kastike", "salami", "sipsi", "chips", "sauce", "steak", "bell pepper"},
				Group:      "spice",
			},
			"meat": {
				Triggers:   []string{"jauheliha", "nauta", "sika", "kana", "broileri", "beef", "pork", "chicken", "minced meat"},
				Exclusions: []string{"makkara", "pihvi", "leikkele", "pyörykkä", "nakki", "sausage", "meatball", "nugget"},
				Group:      "meat",
			},
			"potato": {
				Triggers:   []string{"peruna", "potato", "pottu"},
				Exclusions: []string{"chips", "sipsi", "fries", "ranskalaiset", "lasagne", "salaatti", "muusi", "gratiini", "mash", "salad"},
				Group:      "vegetable",
			},
			"baby": {
				Triggers:   []string{"vauva", "vauvan", "piltti", "baby"},
				Exclusions: []string{"piltti", "vauvan", "lastenruoka", "baby food"},
				Generic:    true,
			},
			"pet": {
				Triggers:   []string{"koira", "kissa", "lemmikki", "pet", "dog", "cat"},
				Exclusions: []string{"koira", "kissa", "lemmikki", "pet", "pet food", "dog food", "cat food"},
				Generic:    true,
			},
		},
		Synonyms: map[string][]string{
			"kana":           {"broileri", "chicken"},
			"nauta":          {"beef", "härkä"},
			"sika":           {"pork", "possu"},
			"jauheliha":      {"nauta-sika", "sika-nauta"},
			"kala":           {"lohi", "turska", "fish"},
			"sipuli":         {"onion"},
			"valkosipuli":    {"garlic"},
			"tomaatti":       {"tomato"},
			"peruna":         {"potato", "pottu"},
			"porkkana":       {"carrot"},
			"maito":          {"milk"},
			"kerma":          {"ruokakerma", "cream"},
			"juusto":         {"cheese", "cheddar", "gouda", "edam"},
			"parmesaani":     {"parmesan", "grana padano"},
			"mozzarella":     {"pizzajuusto"},
			"voi":            {"butter", "margariini"},
			"kananmuna":      {"muna", "egg"},
			"riisi":          {"rice", "basmati", "jasmiiniriisi"},
			"pasta":          {"makaroni", "spagetti"},
			"leipä":          {"bread"},
			"jauhot":         {"vehnäjauho", "flour"},
			"korppujauho":    {"breadcrumb"},
			"suola":          {"keittosuola", "merisuola", "salt"},
			"pippuri":        {"mustapippuri", "black pepper"},
			"mustapippuri":   {"pippuri", "black pepper"},
			"sokeri":         {"sugar"},
			"öljy":           {"rypsiöljy", "oil"},
			"oliiviöljy":     {"olive oil", "extra virgin"},
			"soijakastike":   {"soija", "soy sauce"},
			"liemikuutio":    {"lihaliemi", "kasviliemi", "fondi"},
			"tomaattimurska": {"crushed tomato", "tomaattisäilyke"},
			"tomaattipyree":  {"tomato paste", "tomato puree"},
			"persilja":       {"parsley"},
			"ruohosipuli":    {"chive"},
			"basilika":       {"basil"},
			"timjami":        {"thyme"},
		},
		StopModifiers: map[string][]string{
			"fi": {
				"tuore", "tuoretta", "kuivattu", "pakastettu", "suolattu", "makeutettu", "kiinteä",
				"jauhoinen", "yleisperuna", "vähälaktoosinen", "laktoositon", "luomu", "pieni",
				"pientä", "iso", "isoa", "kova", "pehmeä", "hienonnettu", "silputtu", "kotimainen",
				"tai", "esim", "noin", "ja", "n",
			},
			"en": {
				"fresh", "frozen", "dried", "salted", "unsalted", "sweetened", "organic", "large",
				"small", "medium", "chopped", "minced", "diced", "sliced", "ground", "premium",
				"or", "and", "of", "the", "a", "an", "to", "taste", "about",
			},
		},
	}
}
