package domain

import "time"

// LinkRecord is one shortened URL as returned by the history endpoint.
// Copied is local UI state and is never encoded back to the server.
type LinkRecord struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"original"`
	RealURL     string     `json:"realUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Copied      bool       `json:"-"`
}

// ShortenResult is the creation payload of POST /api/shorten
type ShortenResult struct {
	ShortCode   string `json:"shortCode"`
	RedirectURL string `json:"redirectUrl"`
}
