package services

import (
	"context"
	"log"
	"sync"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

// Dashboard ties the session to the link list, the analytics panel and the
// copy feedback flags, and decides how each failure is surfaced:
// shorten errors are returned, history errors are logged and the previous
// list is kept, analytics errors land on the series.
type Dashboard struct {
	session   *SessionService
	links     *LinkService
	analytics *AnalyticsService
	flags     *FlagScheduler
	clipboard ports.Clipboard

	mu      sync.Mutex
	input   string
	mounted bool
}

func NewDashboard(session *SessionService, links *LinkService, analytics *AnalyticsService, flags *FlagScheduler, clipboard ports.Clipboard) *Dashboard {
	d := &Dashboard{
		session:   session,
		links:     links,
		analytics: analytics,
		flags:     flags,
		clipboard: clipboard,
	}
	session.Subscribe(d.onSession)
	return d
}

func (d *Dashboard) onSession(ctx context.Context, s domain.Session) {
	if s.Status == domain.Authenticated {
		d.refresh(ctx)
		return
	}

	d.flags.CancelAll()
	d.analytics.Close()
	d.links.Reset()
	d.mu.Lock()
	d.input = ""
	d.mu.Unlock()
}

func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	return d.session.Authenticate(ctx, username, password)
}

func (d *Dashboard) Register(ctx context.Context, username, password string) (string, error) {
	return d.session.Register(ctx, username, password)
}

func (d *Dashboard) Logout(ctx context.Context) error {
	return d.session.Logout(ctx)
}

func (d *Dashboard) Session() domain.Session {
	return d.session.Session()
}

// View applies the route guard to the current session
func (d *Dashboard) View(requested domain.View) domain.View {
	return ResolveView(requested, d.session.Status())
}

// Mount loads the list for a restored session. After a login the list is
// already loaded and no second request is made.
func (d *Dashboard) Mount(ctx context.Context) {
	d.mu.Lock()
	d.mounted = true
	d.mu.Unlock()

	if d.session.Status() == domain.Authenticated && !d.links.Loaded() {
		d.refresh(ctx)
	}
}

// Unmount cancels pending flag timers, closes the panel and orphans any
// list refresh still in flight.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	d.mounted = false
	d.mu.Unlock()

	d.flags.CancelAll()
	d.analytics.Close()
	d.links.Reset()
}

func (d *Dashboard) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// Refresh reloads the list and returns the failure, for callers that retry.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.links.Refresh(ctx)
}

func (d *Dashboard) refresh(ctx context.Context) {
	if err := d.links.Refresh(ctx); err != nil {
		log.Printf("Failed to load history: %v", err)
	}
}

func (d *Dashboard) SetInput(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.input = url
}

func (d *Dashboard) Input() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

// Submit shortens the URL in the input field. The field is cleared only on
// success; an empty field never reaches the network. A request that outlives
// its session returns ErrSessionChanged and leaves the field alone.
func (d *Dashboard) Submit(ctx context.Context) (*domain.ShortenResult, error) {
	url := d.Input()
	if url == "" {
		return nil, domain.ErrEmptyURL
	}
	if d.session.Status() != domain.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}

	res, err := d.links.Shorten(ctx, url)
	if err != nil {
		return nil, err
	}

	d.SetInput("")
	return res, nil
}

func (d *Dashboard) Links() []domain.LinkRecord {
	return d.links.Links()
}

// ActiveLinks is the count shown in the stats header
func (d *Dashboard) ActiveLinks() int {
	return d.links.Len()
}

// Copy puts the record's redirect URL on the clipboard and raises its
// copied flag. A clipboard failure is logged; the flag is raised anyway.
func (d *Dashboard) Copy(id int64) error {
	link, ok := d.links.Get(id)
	if !ok {
		return domain.ErrLinkNotFound
	}
	if d.clipboard != nil {
		if err := d.clipboard.WriteText(link.RealURL); err != nil {
			log.Printf("copy %d: clipboard: %v", id, err)
		}
	}
	d.flags.Raise(id)
	return nil
}

// OpenAnalytics reports whether this request's result is what the panel shows.
func (d *Dashboard) OpenAnalytics(ctx context.Context, code string) bool {
	if code == "" {
		return false
	}
	return d.analytics.Open(ctx, code)
}

func (d *Dashboard) CloseAnalytics() {
	d.analytics.Close()
}

func (d *Dashboard) AnalyticsOpen() bool {
	return d.analytics.IsOpen()
}

func (d *Dashboard) Analytics() domain.AnalyticsSeries {
	return d.analytics.Series()
}
