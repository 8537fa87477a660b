package normalize

import (
	"regexp"
	"strings"
)

// Identifiers holds the external catalog identifiers resolved for one
// row. The fields are independent; a row may carry several at once.
type Identifiers struct {
	ISBN          *string
	OpenLibraryID *string
	GoogleBooksID *string
	GoodreadsID   *string
}

var (
	isbn13Pattern      = regexp.MustCompile(`^\d{13}$`)
	isbn10Pattern      = regexp.MustCompile(`^\d{9}[\dX]$`)
	openLibraryPattern = regexp.MustCompile(`OL\d+W`)
	googleBooksURLPat  = regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]{12})(?:[^A-Za-z0-9_-]|$)`)
	cellTokenPattern   = regexp.MustCompile(`[A-Za-z0-9_-]+`)
)

// ResolveIdentifiers applies the identifier priority rules to one row.
// ISBNs come only from explicitly mapped ISBN columns, 13 preferred over
// 10. The Goodreads id is taken verbatim from its mapped column.
// OpenLibrary and Google Books ids are scanned out of every cell in
// stable column order; the first match per identifier type wins, so
// results are reproducible across runs.
func ResolveIdentifiers(row RawRow, hm HeaderMapping) Identifiers {
	var ids Identifiers

	if isbn := isbnFromColumns(row, hm); isbn != "" {
		ids.ISBN = &isbn
	}
	if v := stripExcelQuoting(hm.Cell(row, FieldGoodreadsID)); v != "" {
		ids.GoodreadsID = &v
	}

	for _, h := range row.Headers {
		cell := row.Value(h)
		if cell == "" {
			continue
		}
		if ids.OpenLibraryID == nil {
			if m := openLibraryPattern.FindString(cell); m != "" {
				ids.OpenLibraryID = &m
			}
		}
		if ids.GoogleBooksID == nil {
			if m := googleBooksID(cell); m != "" {
				ids.GoogleBooksID = &m
			}
		}
		if ids.OpenLibraryID != nil && ids.GoogleBooksID != nil {
			break
		}
	}
	return ids
}

func isbnFromColumns(row RawRow, hm HeaderMapping) string {
	if isbn := cleanISBN(hm.Cell(row, FieldISBN13)); isbn != "" {
		return isbn
	}
	return cleanISBN(hm.Cell(row, FieldISBN10))
}

// cleanISBN strips Excel-style `="..."` quoting (Goodreads exports wrap
// ISBN cells this way), hyphens and spaces, then checks the 13- or
// 10-digit shape. Anything else degrades to "".
func cleanISBN(raw string) string {
	v := stripExcelQuoting(raw)
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ToUpper(v)
	if isbn13Pattern.MatchString(v) || isbn10Pattern.MatchString(v) {
		return v
	}
	return ""
}

func stripExcelQuoting(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, `="`) && strings.HasSuffix(v, `"`) && len(v) > 3 {
		return strings.TrimSpace(v[2 : len(v)-1])
	}
	return v
}

// googleBooksID extracts a Google Books volume id from a cell. A volume
// id is a 12-character [A-Za-z0-9_-] token; to keep plain 12-letter
// words, hyphenated vocabulary like shelf names, and other numeric ids
// from matching, a standalone token must carry a digit or an inner
// uppercase letter. Tokens inside a books.google.com `id=` query
// parameter are trusted as-is.
func googleBooksID(cell string) string {
	if strings.Contains(cell, "books.google.") {
		if m := googleBooksURLPat.FindStringSubmatch(cell); m != nil {
			return m[1]
		}
	}
	for _, tok := range cellTokenPattern.FindAllString(cell, -1) {
		if looksLikeGoogleBooksID(tok) {
			return tok
		}
	}
	return ""
}

func looksLikeGoogleBooksID(tok string) bool {
	if len(tok) != 12 {
		return false
	}
	if openLibraryPattern.MatchString(tok) {
		return false
	}
	var hasLetter, hasDigit, innerUpper bool
	for i, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= 'A' && r <= 'Z':
			hasLetter = true
			if i > 0 {
				innerUpper = true
			}
		}
	}
	if !hasLetter {
		// all-digit tokens are ISBN fragments or vendor row ids
		return false
	}
	// A separator alone is not evidence: "want-to-read" and friends are
	// routine shelf vocabulary, not volume ids.
	return hasDigit || innerUpper
}
