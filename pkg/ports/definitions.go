package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
)

// AuthAPI covers the unauthenticated auth endpoints of the remote service
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Register(ctx context.Context, creds domain.Credentials) (string, error)
}

// LinkAPI covers link creation and history
type LinkAPI interface {
	Shorten(ctx context.Context, url string) (*domain.ShortenResult, error)
	History(ctx context.Context) ([]domain.LinkRecord, error)
}

// AnalyticsAPI fetches the click series of one code
type AnalyticsAPI interface {
	Analytics(ctx context.Context, code string) ([]domain.Point, error)
}

// TokenProvider hands the current bearer token to the gateway; "" means anonymous.
type TokenProvider interface {
	Token() string
}

// TokenStore is the durable key-value slot holding at most one token
type TokenStore interface {
	Load(ctx context.Context) (string, error) // "" when the slot is empty
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Clipboard is the system clipboard
type Clipboard interface {
	WriteText(text string) error
}

// FlagSink receives transient flag transitions for a record id.
type FlagSink interface {
	SetCopied(id int64, copied bool) bool
}

type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests drive it manually.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
