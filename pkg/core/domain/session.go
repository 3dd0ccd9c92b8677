package domain

type SessionStatus int

const (
	Anonymous SessionStatus = iota
	Authenticated
)

func (s SessionStatus) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is the client-held proof of authentication.
// Status is Authenticated iff Token is non-empty.
type Session struct {
	Token  string
	User   string
	Status SessionStatus
}

// Credentials payload for login and register
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
