package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
	"golang.org/x/oauth2"
)

const maxMessageLen = 200

// HTTPGateway talks to the link-shortening service. Every failure of the
// round trip itself is returned as a *domain.APIError; errors building the
// request (bad base URL, unencodable body) are returned as is.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  ports.TokenProvider
}

func NewHTTPGateway(baseURL string, tokens ports.TokenProvider, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type shortenRequest struct {
	URL string `json:"url"`
}

// Login exchanges credentials for a token
func (g *HTTPGateway) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var resp loginResponse
	if err := g.do(ctx, false, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &domain.APIError{Kind: domain.KindMalformedResponse, Status: http.StatusOK, Message: "missing token"}
	}
	return resp.Token, nil
}

// Register creates an account and returns the server's message
func (g *HTTPGateway) Register(ctx context.Context, creds domain.Credentials) (string, error) {
	var resp messageResponse
	if err := g.do(ctx, false, http.MethodPost, "/api/auth/register", creds, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (g *HTTPGateway) Shorten(ctx context.Context, longURL string) (*domain.ShortenResult, error) {
	var res domain.ShortenResult
	if err := g.Call(ctx, http.MethodPost, "/api/shorten", shortenRequest{URL: longURL}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *HTTPGateway) History(ctx context.Context) ([]domain.LinkRecord, error) {
	var links []domain.LinkRecord
	if err := g.Call(ctx, http.MethodGet, "/api/history", nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (g *HTTPGateway) Analytics(ctx context.Context, code string) ([]domain.Point, error) {
	var points []domain.Point
	if err := g.Call(ctx, http.MethodGet, "/api/analytics/"+url.PathEscape(code), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Call sends body as JSON and decodes the response into out (skipped when out is nil).
// The bearer token is attached whenever the provider has one.
func (g *HTTPGateway) Call(ctx context.Context, method, path string, body, out interface{}) error {
	return g.do(ctx, true, method, path, body, out)
}

func (g *HTTPGateway) do(ctx context.Context, authed bool, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := g.client
	if authed {
		client = g.clientWithToken()
	}

	resp, err := client.Do(req)
	if err != nil {
		return &domain.APIError{Kind: domain.KindConnectionRefused, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.APIError{Kind: domain.KindConnectionRefused, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := domain.KindServiceError
		if resp.StatusCode == http.StatusForbidden {
			kind = domain.KindUnauthorized
		}
		return &domain.APIError{Kind: kind, Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.APIError{Kind: domain.KindMalformedResponse, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (g *HTTPGateway) clientWithToken() *http.Client {
	if g.tokens == nil {
		return g.client
	}
	token := g.tokens.Token()
	if token == "" {
		return g.client
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   g.client.Transport,
		},
		Timeout: g.client.Timeout,
	}
}

// serverMessage pulls a human readable message out of an error body:
// a JSON string, a {"message"} or {"error"} object, or the raw text.
func serverMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return truncate(s)
	}
	var m messageResponse
	if err := json.Unmarshal(trimmed, &m); err == nil {
		if m.Message != "" {
			return truncate(m.Message)
		}
		return truncate(m.Error)
	}
	return truncate(string(trimmed))
}

func truncate(s string) string {
	if len(s) > maxMessageLen {
		return s[:maxMessageLen]
	}
	return s
}
