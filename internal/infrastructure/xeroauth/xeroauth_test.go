package xeroauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

func testAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	return New(Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		CallbackPort: "54071",
		TokenFile:    filepath.Join(t.TempDir(), "token.json"),
	}, zerolog.Nop())
}

func TestTokenCacheRoundTrip(t *testing.T) {
	a := testAuthorizer(t)

	token := &oauth2.Token{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(30 * time.Minute),
	}
	if err := a.saveToken(token); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(a.cfg.TokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file must be private, got %v", info.Mode().Perm())
	}

	cached, err := a.cachedToken()
	if err != nil {
		t.Fatal(err)
	}
	if cached.AccessToken != "at-1" || cached.RefreshToken != "rt-1" {
		t.Errorf("unexpected cached token: %+v", cached)
	}
}

func TestTokenCacheExpiry(t *testing.T) {
	a := testAuthorizer(t)

	if err := a.saveToken(&oauth2.Token{AccessToken: "at-1"}); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-tokenCacheDuration - time.Minute)
	if err := os.Chtimes(a.cfg.TokenFile, stale, stale); err != nil {
		t.Fatal(err)
	}

	if _, err := a.cachedToken(); err == nil {
		t.Error("stale token file must not be reused")
	}
}

func TestTokenCacheMissing(t *testing.T) {
	if _, err := testAuthorizer(t).cachedToken(); err == nil {
		t.Error("missing token file must not be reused")
	}
}

func TestDefaultScopes(t *testing.T) {
	a := testAuthorizer(t)
	if len(a.oauth.Scopes) != len(defaultScopes) {
		t.Errorf("expected default scopes, got %v", a.oauth.Scopes)
	}

	custom := New(Config{Scopes: []string{"accounting.transactions"}}, zerolog.Nop())
	if len(custom.oauth.Scopes) != 1 {
		t.Errorf("explicit scopes must win, got %v", custom.oauth.Scopes)
	}
}
