package session

import (
	"net/http"
	"time"

	"github.com/yukikurage/priority-matrix-api/internal/constants"
)

// Principal is the authenticated identity resolved from a request
type Principal struct {
	UserID    string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Gateway resolves session cookies to principals and issues new ones
type Gateway struct {
	tokens *TokenManager
	secure bool
}

// NewGateway creates a Gateway. secure forces the Secure cookie attribute.
func NewGateway(tokens *TokenManager, secure bool) *Gateway {
	return &Gateway{
		tokens: tokens,
		secure: secure,
	}
}

// Resolve returns the principal carried by the request's session cookie
func (g *Gateway) Resolve(r *http.Request) (*Principal, bool) {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err := g.tokens.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}

	principal := &Principal{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	return principal, true
}

// Issue writes a fresh session cookie for the user
func (g *Gateway) Issue(w http.ResponseWriter, userID, name, email string) (*Principal, error) {
	token, expiresAt, err := g.tokens.Issue(userID, name, email)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, g.cookie(token, int(g.tokens.MaxAge().Seconds()), expiresAt))

	return &Principal{
		UserID:    userID,
		Name:      name,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

// Clear expires the session cookie
func (g *Gateway) Clear(w http.ResponseWriter) {
	http.SetCookie(w, g.cookie("", -1, time.Unix(0, 0)))
}

func (g *Gateway) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
