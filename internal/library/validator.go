package library

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/httpx"
	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("isbn", validateISBN)
	validate.RegisterValidation("reading_status", validateReadingStatus)
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		matched, _ := regexp.MatchString(`^\d{9}[\dX]$`, isbn)
		return matched
	}
	if len(isbn) == 13 {
		matched, _ := regexp.MatchString(`^\d{13}$`, isbn)
		return matched
	}
	return false
}

func validateReadingStatus(fl validator.FieldLevel) bool {
	switch normalize.ReadingStatus(fl.Field().String()) {
	case normalize.StatusRead, normalize.StatusReading, normalize.StatusToRead,
		normalize.StatusWishlist, normalize.StatusDNF:
		return true
	}
	return false
}

// ValidISBN reports whether s is a well-formed ISBN-10 or ISBN-13.
func ValidISBN(s string) bool {
	return validate.Var(s, "isbn") == nil
}

type listQueryRules struct {
	Genre    string `validate:"omitempty,max=40"`
	Status   string `validate:"omitempty,reading_status"`
	Language string `validate:"omitempty,len=2,alpha"`
	Author   string `validate:"omitempty,max=200"`
	Q        string `validate:"omitempty,max=200"`
}

// ValidateListQuery checks list filters and reports per-field problems
// in the API's error-detail shape.
func ValidateListQuery(q Query) []httpx.ErrorDetail {
	rules := listQueryRules{
		Genre:    q.Genre,
		Status:   q.Status,
		Language: q.Language,
		Author:   q.Author,
		Q:        q.Q,
	}
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			details = append(details, httpx.ErrorDetail{
				Field:   strings.ToLower(ve.Field()),
				Message: "failed " + ve.Tag() + " validation",
			})
		}
	}
	return details
}
