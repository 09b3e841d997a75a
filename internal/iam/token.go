// Package iam exchanges a long-lived IBM Cloud API key for short-lived
// bearer tokens and caches the result.
package iam

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const grantType = "urn:ibm:params:oauth:grant-type:apikey"

// tokenFreshness is deliberately shorter than the real IAM token lifetime
// (about an hour) so a cached token is never served close to expiry.
const tokenFreshness = 300 * time.Second

const maxBodySnippet = 1500

// AuthError reports a failed credential exchange: the identity endpoint was
// unreachable, answered non-2xx, or returned a body without access_token.
// The exchange is never retried here; retry is the caller's call.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	var b strings.Builder
	b.WriteString("identity token exchange failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Body != "" {
		b.WriteString("\nResponse: ")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

type apikeySource struct {
	tokenURL string
	apiKey   string
	client   *http.Client
}

// New returns a caching token source for the given credential. The wrap in
// oauth2.ReuseTokenSource gives the lazy refresh-on-staleness behavior and
// guards the cached token against concurrent requests.
func New(tokenURL, apiKey string, timeout time.Duration) oauth2.TokenSource {
	src := &apikeySource{
		tokenURL: tokenURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
	return oauth2.ReuseTokenSource(nil, src)
}

func (s *apikeySource) Token() (*oauth2.Token, error) {
	form := url.Values{
		"grant_type": {grantType},
		"apikey":     {s.apiKey},
	}
	req, err := http.NewRequest(http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("iam.Token: identity endpoint unreachable", "error", err)
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("iam.Token: identity endpoint rejected credential", "status", resp.StatusCode)
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: snippet(body), Err: err}
	}
	if payload.AccessToken == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: snippet(body), Err: errors.New("access_token missing from identity response")}
	}

	slog.Debug("iam.Token: exchanged api key for bearer token")
	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(tokenFreshness),
	}, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		s = s[:maxBodySnippet]
	}
	return s
}
