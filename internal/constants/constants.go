package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
)

// Cookies
const (
	SessionCookieName   = "pm.session-token"
	AuthFlowCookieName  = "pm.auth-flow"
	AuthFlowStateMaxAge = 10 * time.Minute
)

// Sign-in flow session keys
const (
	FlowKeyState       = "state"
	FlowKeyCallbackURL = "callback_url"
)

// Redirect targets relative to the frontend origin
const (
	DefaultLandingPath = "/dashboard"
	SignInPagePath     = "/"
)

// Task defaults
const (
	DefaultTaskPosition = 0
)
