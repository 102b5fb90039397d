// internal/app/system/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single round trip to the club API.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// maxMessageLen caps plain-text error bodies shown to staff.
const maxMessageLen = 300

// Client talks to the club REST API. A Client carries no per-user state;
// WithToken returns a copy that authenticates as one staff session.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
	tracer  trace.Tracer
	token   string
}

// New validates baseURL and returns a Client. A zero timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     logger,
		tracer:  otel.Tracer("clubhub/apiclient"),
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// WithToken returns a Client that sends token as a bearer credential.
// An empty token yields an anonymous client.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	if token == "" {
		cp.hc = &http.Client{Timeout: c.hc.Timeout, Transport: c.hc.Transport}
		return &cp
	}
	base := c.hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	cp.hc = &http.Client{
		Timeout: c.hc.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
	}
	return &cp
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// do sends one JSON request. in is encoded as the body when non-nil; out
// receives the decoded response when non-nil and the response has a body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "clubapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Message: "Unable to encode request.", Err: err}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Op: op, Message: "Unable to build request.", Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.log.Warn("club api unreachable",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Error(err))
		msg := "Unable to reach the club server."
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "The club server took too long to respond."
		}
		return &RequestError{Op: op, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.Debug("club api call",
		zap.String("op", op),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := errorMessage(resp.StatusCode, raw)
		span.SetStatus(codes.Error, msg)
		return &RequestError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return &RequestError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: "The club server sent an unexpected response.",
			Err:     err,
		}
	}
	return nil
}

// errorMessage extracts a readable message from an error response body:
// a JSON "error" or "message" field, else the plain-text body, else a
// generic status line.
func errorMessage(status int, raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if s := strings.TrimSpace(payload.Error); s != "" {
				return s
			}
			if s := strings.TrimSpace(payload.Message); s != "" {
				return s
			}
		}
		return fmt.Sprintf("request failed with status %d", status)
	}
	if len(trimmed) > 0 {
		msg := string(trimmed)
		if len(msg) > maxMessageLen {
			cut := maxMessageLen
			for cut > 0 && !utf8.RuneStart(msg[cut]) {
				cut--
			}
			msg = msg[:cut] + "..."
		}
		return msg
	}
	return fmt.Sprintf("request failed with status %d", status)
}
