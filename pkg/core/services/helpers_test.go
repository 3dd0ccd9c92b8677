package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

// memStore is an in-memory ports.TokenStore
type memStore struct {
	mu       sync.Mutex
	token    string
	saves    int
	clears   int
	clearErr error
}

func (m *memStore) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.token = token
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.token = ""
	return nil
}

// fakeAPI implements the auth, link and analytics ports with canned answers.
type fakeAPI struct {
	mu sync.Mutex

	loginToken  string
	loginErr    error
	loginCalls  int
	registerMsg string

	shortenCalls []string
	shortenErr   error
	shortenHook  func()

	historyCalls int
	history      []domain.LinkRecord
	historyErr   error
	historyHook  func(call int) ([]domain.LinkRecord, error)

	analyticsCalls []string
	points         []domain.Point
	analyticsErr   error
}

func (f *fakeAPI) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, creds domain.Credentials) (string, error) {
	return f.registerMsg, nil
}

func (f *fakeAPI) Shorten(ctx context.Context, url string) (*domain.ShortenResult, error) {
	f.mu.Lock()
	hook := f.shortenHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.shortenCalls = append(f.shortenCalls, url)
	if f.shortenErr != nil {
		return nil, f.shortenErr
	}
	return &domain.ShortenResult{ShortCode: "abc123", RedirectURL: "http://s.test/abc123"}, nil
}

func (f *fakeAPI) History(ctx context.Context) ([]domain.LinkRecord, error) {
	f.mu.Lock()
	f.historyCalls++
	call, hook := f.historyCalls, f.historyHook
	links, err := f.history, f.historyErr
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return append([]domain.LinkRecord(nil), links...), err
}

func (f *fakeAPI) Analytics(ctx context.Context, code string) ([]domain.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyticsCalls = append(f.analyticsCalls, code)
	return f.points, f.analyticsErr
}

func (f *fakeAPI) counts() (shorten, history int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shortenCalls), f.historyCalls
}

type analyticsResult struct {
	points []domain.Point
	err    error
}

// gatedAnalytics blocks each request until the test releases its code's gate.
type gatedAnalytics struct {
	mu      sync.Mutex
	started chan string
	gates   map[string]chan analyticsResult
}

func newGatedAnalytics() *gatedAnalytics {
	return &gatedAnalytics{
		started: make(chan string, 8),
		gates:   make(map[string]chan analyticsResult),
	}
}

func (g *gatedAnalytics) gate(code string) chan analyticsResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[code]
	if !ok {
		ch = make(chan analyticsResult, 1)
		g.gates[code] = ch
	}
	return ch
}

func (g *gatedAnalytics) Analytics(ctx context.Context, code string) ([]domain.Point, error) {
	g.started <- code
	r := <-g.gate(code)
	return r.points, r.err
}

func (g *gatedAnalytics) release(code string, points []domain.Point, err error) {
	g.gate(code) <- analyticsResult{points: points, err: err}
}

// manualClock only moves when the test calls Advance
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance fires due timers in deadline order, outside the clock's lock.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

// Live counts timers that are neither stopped nor fired
func (c *manualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// recordingSink is a ports.FlagSink that keeps every transition
type recordingSink struct {
	mu    sync.Mutex
	state map[int64]bool
	calls map[int64][]bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{state: make(map[int64]bool), calls: make(map[int64][]bool)}
}

func (s *recordingSink) SetCopied(id int64, copied bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[id] = copied
	s.calls[id] = append(s.calls[id], copied)
	return true
}

func (s *recordingSink) copied(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[id]
}

func (s *recordingSink) reverts(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls[id] {
		if !v {
			n++
		}
	}
	return n
}

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, text)
	return c.err
}

func sampleLinks() []domain.LinkRecord {
	return []domain.LinkRecord{
		{ID: 7, ShortCode: "abc123", ShortURL: "linklet.sh/abc123", OriginalURL: "https://example.com", RealURL: "http://s.test/abc123"},
		{ID: 9, ShortCode: "xyz789", ShortURL: "linklet.sh/xyz789", OriginalURL: "https://golang.org", RealURL: "http://s.test/xyz789"},
	}
}

func generateTestToken(t *testing.T, subject string) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("testsecret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}
