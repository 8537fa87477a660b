package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// GoodreadsHeader is the header row of a typical Goodreads export.
var GoodreadsHeader = []string{
	"Book Id", "Title", "Author", "ISBN", "ISBN13",
	"My Rating", "Publisher", "Number of Pages",
	"Year Published", "Date Read", "Exclusive Shelf", "Bookshelves",
}

// GoodreadsRow is one well-formed Goodreads export row matching
// GoodreadsHeader.
var GoodreadsRow = []string{
	"17163", "The Great Gatsby", "F. Scott Fitzgerald",
	`="0743273567"`, `="9780743273565"`,
	"4", "Scribner", "180",
	"2004", "2023-07-15", "read", "classics, summer-2023",
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewInternalRequest creates a request carrying the internal job
// secret header.
func NewInternalRequest(method, path string, body interface{}, secret string) *http.Request {
	r := NewRequest(method, path, body)
	if secret != "" {
		r.Header.Set("X-Internal-Secret", secret)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
