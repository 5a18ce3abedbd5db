package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/endpoints"
)

// GraphScopes are the delegated resources requested for every Exchange
// access token.
var GraphScopes = []string{
	"https://outlook.office365.com/EWS.AccessAsUser.All",
	"https://graph.microsoft.com/Mail.Read",
	"https://graph.microsoft.com/Mail.Send",
	"https://graph.microsoft.com/Calendars.ReadWrite",
}

// expirySkew is subtracted from a token's lifetime so we never hand out a
// token about to lapse mid-request.
const expirySkew = time.Minute

type cachedToken struct {
	token  string
	expiry time.Time
}

// CredentialProvider resolves per-user access tokens for calling Graph and
// EWS, caching them in memory until they expire. All acquisition failures
// collapse to "no token": callers must treat absence as an
// unauthenticated-downstream condition, while the underlying cause is kept
// observable through the log.
type CredentialProvider struct {
	conf clientcredentials.Config
	log  zerolog.Logger

	mu    sync.Mutex
	cache map[string]cachedToken

	now func() time.Time
}

// NewAzureCredentialProvider configures a provider against the Azure AD
// token endpoint for the given tenant.
func NewAzureCredentialProvider(clientID, clientSecret, tenantID string, log zerolog.Logger) *CredentialProvider {
	return NewCredentialProvider(clientID, clientSecret, endpoints.AzureAD(tenantID).TokenURL, log)
}

func NewCredentialProvider(clientID, clientSecret, tokenURL string, log zerolog.Logger) *CredentialProvider {
	return &CredentialProvider{
		conf: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       GraphScopes,
		},
		log:   log,
		cache: map[string]cachedToken{},
		now:   time.Now,
	}
}

// AccessToken returns an access token usable on behalf of username, or
// ok=false when none could be obtained. A cached unexpired token is
// returned first; otherwise a client-credentials acquisition is performed
// and the result cached against the token's own expiry.
func (p *CredentialProvider) AccessToken(ctx context.Context, username string) (string, bool) {
	if token, ok := p.cached(username); ok {
		return token, true
	}

	tok, err := p.conf.Token(ctx)
	if err != nil {
		p.log.Error().Err(err).Str("username", username).Msg("acquiring access token")

		return "", false
	}

	if tok.AccessToken == "" {
		p.log.Error().Str("username", username).Msg("identity provider returned an empty access token")

		return "", false
	}

	p.store(username, tok.AccessToken, tok.Expiry)

	return tok.AccessToken, true
}

func (p *CredentialProvider) cached(username string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.cache[username]
	if !ok {
		return "", false
	}

	if !entry.expiry.IsZero() && !p.now().Before(entry.expiry) {
		delete(p.cache, username)

		return "", false
	}

	return entry.token, true
}

func (p *CredentialProvider) store(username, token string, expiry time.Time) {
	if !expiry.IsZero() {
		expiry = expiry.Add(-expirySkew)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Last writer wins: tokens for the same identity are interchangeable.
	p.cache[username] = cachedToken{
		token:  token,
		expiry: expiry,
	}
}
