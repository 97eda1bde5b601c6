package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yukikurage/priority-matrix-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	gitHubAPIURL      = "https://api.github.com"
)

// CallbackURL returns the redirect URI registered with a provider
func CallbackURL(publicURL, providerID string) string {
	return publicURL + "/auth/callback/" + providerID
}

// FromConfig builds a registry with every provider that has credentials
func FromConfig(cfg *config.Config) *Registry {
	var providers []Provider

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, NewGoogle(&oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  CallbackURL(cfg.PublicURL, ProviderGoogle),
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}, googleUserInfoURL))
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers = append(providers, NewGitHub(&oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  CallbackURL(cfg.PublicURL, ProviderGitHub),
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		}, gitHubAPIURL))
	}

	return NewRegistry(providers...)
}

// NewGoogle creates a Google provider reading the OpenID userinfo endpoint
func NewGoogle(cfg *oauth2.Config, userInfoURL string) Provider {
	return &codeFlowProvider{
		id:     ProviderGoogle,
		name:   "Google",
		config: cfg,
		fetchProfile: func(ctx context.Context, client *http.Client) (*Identity, error) {
			var profile struct {
				Sub     string `json:"sub"`
				Name    string `json:"name"`
				Email   string `json:"email"`
				Picture string `json:"picture"`
			}
			if err := getJSON(ctx, client, userInfoURL, &profile); err != nil {
				return nil, err
			}

			return &Identity{
				ProviderAccountID: profile.Sub,
				Name:              profile.Name,
				Email:             profile.Email,
				Image:             profile.Picture,
			}, nil
		},
	}
}

// NewGitHub creates a GitHub provider reading the REST user endpoints
func NewGitHub(cfg *oauth2.Config, apiURL string) Provider {
	return &codeFlowProvider{
		id:     ProviderGitHub,
		name:   "GitHub",
		config: cfg,
		fetchProfile: func(ctx context.Context, client *http.Client) (*Identity, error) {
			var profile struct {
				ID        int64  `json:"id"`
				Login     string `json:"login"`
				Name      string `json:"name"`
				Email     string `json:"email"`
				AvatarURL string `json:"avatar_url"`
			}
			if err := getJSON(ctx, client, apiURL+"/user", &profile); err != nil {
				return nil, err
			}

			identity := &Identity{
				Name:  profile.Name,
				Email: profile.Email,
				Image: profile.AvatarURL,
			}
			if profile.ID != 0 {
				identity.ProviderAccountID = strconv.FormatInt(profile.ID, 10)
			}
			if identity.Name == "" {
				identity.Name = profile.Login
			}

			// Private addresses are only listed on /user/emails
			if identity.Email == "" {
				var emails []struct {
					Email    string `json:"email"`
					Primary  bool   `json:"primary"`
					Verified bool   `json:"verified"`
				}
				if err := getJSON(ctx, client, apiURL+"/user/emails", &emails); err != nil {
					return nil, err
				}
				for _, e := range emails {
					if e.Primary && e.Verified {
						identity.Email = e.Email
						break
					}
				}
			}

			return identity, nil
		},
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
