package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/normalize"
)

// RemoteClient calls an external inference service implementing the
// classification contract. Each call is independently failable; callers
// degrade the affected row to unknown/nil instead of aborting a batch.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

func NewRemoteClient(baseURL, apiKey, userAgent string, rps int, maxRetries int) *RemoteClient {
	if rps < 1 {
		rps = 1
	}
	return &RemoteClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

type classifyRequest struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Publisher      string `json:"publisher,omitempty"`
	RulesetVersion string `json:"ruleset_version"`
}

type classifyResponse struct {
	AuthorGender         string  `json:"author_gender"`
	AuthorCulturalRegion string  `json:"author_cultural_region"`
	Genre                *string `json:"genre"`
	LanguageCode         *string `json:"language_code"`
}

func (c *RemoteClient) Classify(ctx context.Context, title, author, publisher string) (normalize.Classification, error) {
	body, err := json.Marshal(classifyRequest{
		Title:          title,
		Author:         author,
		Publisher:      publisher,
		RulesetVersion: normalize.RulesetVersion,
	})
	if err != nil {
		return normalize.Classification{}, err
	}

	var res classifyResponse
	if err := c.post(ctx, c.baseURL+"/v1/classify", body, &res); err != nil {
		return normalize.Classification{}, err
	}

	return normalize.Classification{
		AuthorGender:         normalize.Gender(res.AuthorGender),
		AuthorCulturalRegion: normalize.Region(res.AuthorCulturalRegion),
		Genre:                res.Genre,
		LanguageCode:         res.LanguageCode,
	}, nil
}

func (c *RemoteClient) post(ctx context.Context, url string, body []byte, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
