package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
)

var (
	ErrExchangeFailed = errors.New("oauth: code exchange failed")
	ErrProfileFailed  = errors.New("oauth: profile request failed")
	ErrMissingCode    = errors.New("oauth: missing authorization code")
)

// Identity is the provider profile returned after a successful exchange
type Identity struct {
	ProviderAccountID string
	Name              string
	Email             string
	Image             string
}

// Provider exchanges authorization codes for identities
type Provider interface {
	ID() string
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type profileFetcher func(ctx context.Context, client *http.Client) (*Identity, error)

// codeFlowProvider implements Provider on top of an oauth2 authorization code flow
type codeFlowProvider struct {
	id           string
	name         string
	config       *oauth2.Config
	fetchProfile profileFetcher
}

func (p *codeFlowProvider) ID() string   { return p.id }
func (p *codeFlowProvider) Name() string { return p.name }

func (p *codeFlowProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *codeFlowProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExchangeFailed, p.id, err)
	}

	identity, err := p.fetchProfile(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileFailed, p.id, err)
	}
	if identity.ProviderAccountID == "" {
		return nil, fmt.Errorf("%w: %s: empty account id", ErrProfileFailed, p.id)
	}

	return identity, nil
}

// Registry holds the configured providers by ID
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry from the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
	}
	return r
}

// Get returns a provider by ID
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// List returns the providers sorted by ID
func (r *Registry) List() []Provider {
	list := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID() < list[j].ID()
	})
	return list
}
