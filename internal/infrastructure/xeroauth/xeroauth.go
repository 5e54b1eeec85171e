// Package xeroauth performs the Xero OAuth2 authorization-code flow and
// hands back an authorized HTTP client. The core never sees tokens, only the
// client.
package xeroauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Xero identity endpoints.
var endpoint = oauth2.Endpoint{
	AuthURL:  "https://login.xero.com/identity/connect/authorize",
	TokenURL: "https://identity.xero.com/connect/token",
}

var defaultScopes = []string{
	"offline_access",
	"accounting.transactions",
	"accounting.settings",
	"accounting.contacts",
}

// Tokens without a refresh token are reused only briefly, matching the
// access token lifetime with some slack.
const tokenCacheDuration = 25 * time.Minute

// Config configures the authorization flow.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackPort string
	TokenFile    string
	Scopes       []string
}

// Authorizer obtains an authorized *http.Client for the Xero API, running
// the interactive authorization-code flow when no cached token is usable.
type Authorizer struct {
	cfg   Config
	oauth *oauth2.Config
	log   zerolog.Logger
}

// New creates an authorizer.
func New(cfg Config, log zerolog.Logger) *Authorizer {
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(os.TempDir(), "ledgersync.token.json")
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &Authorizer{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  fmt.Sprintf("http://localhost:%s/callback", cfg.CallbackPort),
			Scopes:       scopes,
		},
		log: log.With().Str("component", "xeroauth").Logger(),
	}
}

// Client returns an HTTP client that attaches and refreshes the bearer token
// on every request.
func (a *Authorizer) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.cachedToken()
	if err != nil {
		a.log.Debug().Err(err).Msg("no usable cached token")
		token = nil
	}

	if token == nil {
		token, err = a.authorize(ctx)
		if err != nil {
			return nil, fmt.Errorf("authorize with xero: %w", err)
		}
		if err := a.saveToken(token); err != nil {
			a.log.Warn().Err(err).Msg("failed to cache token")
		}
	}

	return oauth2.NewClient(ctx, a.oauth.TokenSource(ctx, token)), nil
}

// authorize runs the interactive flow: print the consent URL, collect the
// code on a local callback listener, exchange it for a token.
func (a *Authorizer) authorize(ctx context.Context) (*oauth2.Token, error) {
	state, err := randomState()
	if err != nil {
		return nil, err
	}

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		if got := req.URL.Query().Get("state"); got != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errs <- errors.New("oauth state mismatch")
			return
		}
		code := req.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errs <- errors.New("callback carried no authorization code")
			return
		}
		fmt.Fprintln(w, "auth succeeded")
		codes <- code
	})

	server := &http.Server{
		Addr:              ":" + a.cfg.CallbackPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	url := a.oauth.AuthCodeURL(state)
	fmt.Printf("Open this URL in your browser:\n%s\n", url)

	select {
	case code := <-codes:
		return a.oauth.Exchange(ctx, code)
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cachedToken loads the token file when it is fresh enough to reuse.
func (a *Authorizer) cachedToken() (*oauth2.Token, error) {
	info, err := os.Stat(a.cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	if time.Since(info.ModTime()) > tokenCacheDuration {
		return nil, errors.New("cached token expired")
	}

	data, err := os.ReadFile(a.cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (a *Authorizer) saveToken(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(a.cfg.TokenFile, data, 0o600)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
