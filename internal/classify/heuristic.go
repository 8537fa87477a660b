package classify

import (
	"context"
	"strings"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

// Heuristic is a deterministic, rule-based Classifier. It exists to
// satisfy the classification contract without a remote inference
// backend: offline imports, tests, and CI. Its rules are intentionally
// conservative; anything it cannot decide from lookup tables stays
// unknown/nil.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// givenNames maps common given names to gender. The table is tiny on
// purpose: a miss means unknown, and unknown beats a wrong guess.
var givenNames = map[string]normalize.Gender{
	"james":   normalize.GenderMale,
	"john":    normalize.GenderMale,
	"george":  normalize.GenderMale,
	"ernest":  normalize.GenderMale,
	"kazuo":   normalize.GenderMale,
	"gabriel": normalize.GenderMale,
	"haruki":  normalize.GenderMale,

	"toni":       normalize.GenderFemale,
	"jane":       normalize.GenderFemale,
	"mary":       normalize.GenderFemale,
	"agatha":     normalize.GenderFemale,
	"harper":     normalize.GenderFemale,
	"virginia":   normalize.GenderFemale,
	"chimamanda": normalize.GenderFemale,
	"margaret":   normalize.GenderFemale,
	"ursula":     normalize.GenderFemale,
}

// titleGenres are keyword rules applied to lowercased titles, first hit
// wins. Order matters: more specific phrases first.
var titleGenres = []struct {
	keyword string
	genre   string
}{
	{"a biography", "biography"},
	{"a memoir", "biography"},
	{"the life of", "biography"},
	{"a history of", "history"},
	{"history of", "history"},
	{"poems", "poetry"},
	{"poetry", "poetry"},
	{"collected verse", "poetry"},
	{"murder", "mystery"},
	{"mystery", "mystery"},
}

func (h *Heuristic) Classify(_ context.Context, title, author, publisher string) (normalize.Classification, error) {
	c := normalize.UnknownClassification()

	if first := firstName(author); first != "" {
		if g, ok := givenNames[first]; ok {
			c.AuthorGender = g
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, rule := range titleGenres {
		if strings.Contains(lowerTitle, rule.keyword) {
			genre := rule.genre
			c.Genre = &genre
			break
		}
	}
	if c.Genre == nil {
		if genre := publisherGenre(publisher); genre != "" {
			c.Genre = &genre
		}
	}

	// Cultural region and language need real inference; the contract's
	// default-to-unknown policy applies.
	return c, nil
}

func firstName(author string) string {
	fields := strings.Fields(strings.ToLower(author))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,")
}

func publisherGenre(publisher string) string {
	p := strings.ToLower(publisher)
	switch {
	case p == "":
		return ""
	case strings.Contains(p, "harlequin"):
		return "romance"
	case strings.Contains(p, "tor books"), strings.Contains(p, "orbit"), strings.Contains(p, "daw"):
		return "sci-fi"
	case strings.Contains(p, "poetry press"):
		return "poetry"
	default:
		return ""
	}
}
