package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/priority-matrix-api/internal/constants"
	"github.com/yukikurage/priority-matrix-api/internal/dto"
	"github.com/yukikurage/priority-matrix-api/internal/oauth"
	"github.com/yukikurage/priority-matrix-api/internal/services"
	"github.com/yukikurage/priority-matrix-api/internal/session"
	"github.com/yukikurage/priority-matrix-api/internal/utils"
)

// Error codes appended to the frontend sign-in page
const (
	signInErrorConfiguration = "Configuration"
	signInErrorOAuthCallback = "OAuthCallback"
	signInErrorNotLinked     = "OAuthAccountNotLinked"
	signInErrorCallback      = "Callback"
)

// AuthHandler coordinates the OAuth sign-in flow and session endpoints.
type AuthHandler struct {
	authService *services.AuthService
	providers   *oauth.Registry
	gateway     *session.Gateway
	frontendURL string
	publicURL   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, providers *oauth.Registry, gateway *session.Gateway, frontendURL, publicURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		providers:   providers,
		gateway:     gateway,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// FlowSessions keeps the OAuth state nonce and callback URL between the
// sign-in redirect and the provider callback. It never carries identity.
func FlowSessions(store sessions.Store, secure bool) gin.HandlerFunc {
	store.Options(sessions.Options{
		Path:     "/auth",
		MaxAge:   int(constants.AuthFlowStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(constants.AuthFlowCookieName, store)
}

// Providers lists the configured sign-in providers.
func (h *AuthHandler) Providers(c *gin.Context) {
	list := h.providers.List()
	items := make([]dto.ProviderDTO, len(list))
	for i, p := range list {
		items[i] = dto.ProviderDTO{
			ID:          p.ID(),
			Name:        p.Name(),
			SigninURL:   h.publicURL + "/auth/signin/" + p.ID(),
			CallbackURL: oauth.CallbackURL(h.publicURL, p.ID()),
		}
	}

	c.JSON(http.StatusOK, items)
}

// SignIn starts the authorization code flow for a provider.
func (h *AuthHandler) SignIn(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		h.redirectWithError(c, signInErrorConfiguration)
		return
	}

	state, err := utils.GenerateState()
	if err != nil {
		log.Printf("sign-in state generation failed: %v", err)
		h.redirectWithError(c, signInErrorConfiguration)
		return
	}

	flow := sessions.Default(c)
	flow.Set(constants.FlowKeyState, state)
	flow.Set(constants.FlowKeyCallbackURL, session.SanitizeRedirect(c.Query("callbackUrl"), h.frontendURL, constants.DefaultLandingPath))
	if err := flow.Save(); err != nil {
		log.Printf("sign-in flow save failed: %v", err)
		h.redirectWithError(c, signInErrorConfiguration)
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback completes the flow, issues the session cookie and sends the
// browser back to the frontend.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		h.redirectWithError(c, signInErrorConfiguration)
		return
	}

	flow := sessions.Default(c)
	expectedState, _ := flow.Get(constants.FlowKeyState).(string)
	callbackURL, _ := flow.Get(constants.FlowKeyCallbackURL).(string)
	flow.Clear()
	if err := flow.Save(); err != nil {
		log.Printf("sign-in flow clear failed: %v", err)
	}

	if c.Query("error") != "" || expectedState == "" || c.Query("state") != expectedState {
		h.redirectWithError(c, signInErrorOAuthCallback)
		return
	}

	identity, err := provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("sign-in exchange failed: %v", err)
		h.redirectWithError(c, signInErrorOAuthCallback)
		return
	}

	user, err := h.authService.SignIn(c.Request.Context(), provider.ID(), identity)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotLinked) {
			h.redirectWithError(c, signInErrorNotLinked)
			return
		}
		log.Printf("sign-in failed: %v", err)
		h.redirectWithError(c, signInErrorCallback)
		return
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	if _, err := h.gateway.Issue(c.Writer, user.ID, user.Name, email); err != nil {
		log.Printf("session issue failed: %v", err)
		h.redirectWithError(c, signInErrorCallback)
		return
	}

	c.Redirect(http.StatusFound, session.SanitizeRedirect(callbackURL, h.frontendURL, constants.DefaultLandingPath))
}

// Session returns the current session, or an empty object when signed out.
func (h *AuthHandler) Session(c *gin.Context) {
	principal, ok := h.gateway.Resolve(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, dto.SessionDTO{
		User: dto.SessionUserDTO{
			ID:    principal.UserID,
			Name:  principal.Name,
			Email: principal.Email,
		},
		Expires: principal.ExpiresAt,
	})
}

// SignOut clears the session cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.gateway.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{
		"url": h.frontendURL + constants.SignInPagePath,
	})
}

func (h *AuthHandler) redirectWithError(c *gin.Context, code string) {
	query := url.Values{"error": []string{code}}
	c.Redirect(http.StatusFound, h.frontendURL+constants.SignInPagePath+"?"+query.Encode())
}
