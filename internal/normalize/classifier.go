package normalize

import (
	"context"
	"strings"
)

// Classification carries the inferred author-demographic and content
// fields for one record.
type Classification struct {
	AuthorGender         Gender
	AuthorCulturalRegion Region
	Genre                *string
	LanguageCode         *string
}

// Classifier is the contract for the inference collaborator that fills
// the classification fields. Implementations may be heuristic,
// rule-based or backed by a remote service; the pipeline sanitizes every
// result, so an implementation cannot leak out-of-vocabulary values.
type Classifier interface {
	Classify(ctx context.Context, title, author, publisher string) (Classification, error)
}

// UnknownClassification is the degraded result used when the classifier
// fails or is absent: prefer unknown over an incorrect guess.
func UnknownClassification() Classification {
	return Classification{
		AuthorGender:         GenderUnknown,
		AuthorCulturalRegion: RegionUnknown,
	}
}

// SanitizeClassification enforces the classification contract at the
// boundary regardless of what an implementation returned: out-of-enum
// gender/region coerce to unknown, out-of-vocabulary genres to nil, and
// language codes must be exactly two letters.
func SanitizeClassification(c Classification) Classification {
	switch c.AuthorGender {
	case GenderMale, GenderFemale, GenderNonBinary, GenderUnknown:
	default:
		c.AuthorGender = GenderUnknown
	}
	switch c.AuthorCulturalRegion {
	case RegionAfrica, RegionAsia, RegionEurope, RegionNorthAmerica,
		RegionSouthAmerica, RegionOceania, RegionMiddleEast, RegionUnknown:
	default:
		c.AuthorCulturalRegion = RegionUnknown
	}
	if c.Genre != nil && !KnownGenre(*c.Genre) {
		c.Genre = nil
	}
	if c.LanguageCode != nil {
		lc := strings.ToLower(strings.TrimSpace(*c.LanguageCode))
		if len(lc) != 2 || !isAlpha(lc) {
			c.LanguageCode = nil
		} else {
			c.LanguageCode = &lc
		}
	}
	return c
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
