// Package agent forwards user turns to a watsonx agent deployment whose
// request schema is not guaranteed stable, probing a fixed list of payload
// shapes and normalizing whatever JSON comes back.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// maxErrorBody keeps CallError messages readable when they end up rendered
// inline in the chat window.
const maxErrorBody = 1500

// CallError reports that every candidate payload shape was rejected. It
// keeps the last attempt's payload and response for debugging.
type CallError struct {
	Endpoint    string
	LastPayload map[string]any
	StatusCode  int
	Body        any
}

func (e *CallError) Error() string {
	payload, _ := json.Marshal(e.LastPayload)
	detail, _ := json.Marshal(map[string]any{"status_code": e.StatusCode, "body": e.Body})
	return fmt.Sprintf(
		"agent call failed (payload shapes tried). URL: %s\nLast payload: %s\nResponse: %s",
		e.Endpoint, payload, detail,
	)
}

type Client struct {
	endpoint string
	tokens   oauth2.TokenSource
	http     *http.Client
}

func NewClient(endpoint string, tokens oauth2.TokenSource, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		tokens:   tokens,
		http:     &http.Client{Timeout: timeout},
	}
}

// Send forwards one user turn. Profile variables ride along under the
// "profile" key when requested. Candidate shapes are tried sequentially in
// priority order, one attempt each; the first HTTP success is normalized and
// returned and the rest are skipped. Token acquisition failures surface
// unchanged before any shape is attempted.
func (c *Client) Send(ctx context.Context, userText string, profileVars map[string]any, includeProfile bool) (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", err
	}

	variables := map[string]any{}
	if includeProfile && len(profileVars) > 0 {
		variables["profile"] = profileVars
	}

	var (
		lastPayload map[string]any
		lastStatus  int
		lastBody    any
	)
	for i, payload := range candidatePayloads(userText, variables) {
		lastPayload = payload
		status, body, err := c.post(ctx, tok.AccessToken, payload)
		if err != nil {
			// Transport errors and timeouts burn this candidate's single
			// attempt; keep probing the remaining shapes.
			slog.Debug("agent.Send: candidate transport error", "shape", i, "error", err)
			lastStatus, lastBody = 0, err.Error()
			continue
		}
		if status >= 200 && status < 300 {
			slog.Debug("agent.Send: candidate accepted", "shape", i, "status", status)
			if json.Valid(body) {
				return ExtractText(body), nil
			}
			// A non-JSON success body is plain text output, not an error.
			return string(body), nil
		}
		slog.Debug("agent.Send: candidate rejected", "shape", i, "status", status)
		lastStatus = status
		lastBody = decodeErrorBody(body)
	}
	return "", &CallError{
		Endpoint:    c.endpoint,
		LastPayload: lastPayload,
		StatusCode:  lastStatus,
		Body:        lastBody,
	}
}

func (c *Client) post(ctx context.Context, token string, payload map[string]any) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeErrorBody(body []byte) any {
	if json.Valid(body) {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	s := string(body)
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
