// Package lemmy is a small client for the Lemmy v3 HTTP API, limited to
// what the private message inbox needs.
package lemmy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"lemmyterm/internal/logger"
	"lemmyterm/internal/model"
)

// FetchLimit is the default page size for list requests.
const FetchLimit = 20

const (
	apiPrefix       = "/api/v3"
	maxResponseSize = 4 << 20
)

var (
	// ErrNotLoggedIn matches API errors caused by a missing or expired JWT.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrIncorrectLogin matches a rejected username/password pair.
	ErrIncorrectLogin = errors.New("incorrect login")
)

// APIError is a non-2xx response. Code is the server's error identifier,
// e.g. "not_logged_in" or "couldnt_update_private_message".
type APIError struct {
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("lemmy api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("lemmy api: %s (status %d)", e.Code, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotLoggedIn:
		return e.Code == "not_logged_in" || e.StatusCode == http.StatusUnauthorized
	case ErrIncorrectLogin:
		return e.Code == "incorrect_login" || e.Code == "password_incorrect"
	}
	return false
}

type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client, e.g. for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the instance at baseURL
// (e.g. "https://lemmy.ml").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid instance URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid instance URL %q", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the instance URL the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// FeedURL returns the absolute URL for an instance-relative path such as
// an inbox RSS feed.
func (c *Client) FeedURL(path string) string {
	if path == "" {
		return ""
	}
	return c.base.String() + path
}

// authorized returns a client that sends auth as a bearer token. Newer
// servers read the header, older ones the form field; both are sent.
func (c *Client) authorized(ctx context.Context, auth string) *http.Client {
	if auth == "" {
		return c.http
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: auth, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = c.http.Timeout
	return hc
}

func (c *Client) do(ctx context.Context, method, path, auth string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := *c.base
	u.Path = c.base.Path + apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.authorized(ctx, auth).Do(req)
	if err != nil {
		err = redactURLError(err, u, auth)
		c.log.Warn("api_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	c.log.Debug("api_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Code = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// redactURLError replaces the request URL carried by a transport error so
// the auth query value never reaches logs or callers.
func redactURLError(err error, u url.URL, auth string) error {
	var ue *url.Error
	if auth == "" || !errors.As(err, &ue) {
		return err
	}
	q := u.Query()
	if q.Has("auth") {
		q.Set("auth", logger.Redact(auth))
		u.RawQuery = q.Encode()
	}
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}

// Login exchanges credentials for a JWT.
func (c *Client) Login(ctx context.Context, form model.Login) (model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", "", nil, form, &out); err != nil {
		return out, err
	}
	if out.JWT == "" {
		if out.VerifyEmailSent {
			return out, errors.New("login: email verification pending")
		}
		if out.RegistrationCreated {
			return out, errors.New("login: registration awaiting approval")
		}
		return out, errors.New("login: response did not include a token")
	}
	return out, nil
}

// GetSite returns instance metadata; MyUser is set when form.Auth is valid.
func (c *Client) GetSite(ctx context.Context, form model.GetSite) (model.GetSiteResponse, error) {
	var out model.GetSiteResponse
	q := url.Values{}
	if form.Auth != "" {
		q.Set("auth", form.Auth)
	}
	err := c.do(ctx, http.MethodGet, "/site", form.Auth, q, nil, &out)
	return out, err
}

func (c *Client) GetPrivateMessages(ctx context.Context, form model.GetPrivateMessages) (model.PrivateMessagesResponse, error) {
	var out model.PrivateMessagesResponse
	q := url.Values{}
	q.Set("unread_only", strconv.FormatBool(form.UnreadOnly))
	if form.Page > 0 {
		q.Set("page", strconv.Itoa(form.Page))
	}
	if form.Limit > 0 {
		q.Set("limit", strconv.Itoa(form.Limit))
	}
	q.Set("auth", form.Auth)
	err := c.do(ctx, http.MethodGet, "/private_message/list", form.Auth, q, nil, &out)
	return out, err
}

func (c *Client) CreatePrivateMessage(ctx context.Context, form model.CreatePrivateMessage) (model.PrivateMessageResponse, error) {
	var out model.PrivateMessageResponse
	err := c.do(ctx, http.MethodPost, "/private_message", form.Auth, nil, form, &out)
	return out, err
}

func (c *Client) EditPrivateMessage(ctx context.Context, form model.EditPrivateMessage) (model.PrivateMessageResponse, error) {
	var out model.PrivateMessageResponse
	err := c.do(ctx, http.MethodPut, "/private_message", form.Auth, nil, form, &out)
	return out, err
}

func (c *Client) DeletePrivateMessage(ctx context.Context, form model.DeletePrivateMessage) (model.PrivateMessageResponse, error) {
	var out model.PrivateMessageResponse
	err := c.do(ctx, http.MethodPost, "/private_message/delete", form.Auth, nil, form, &out)
	return out, err
}

func (c *Client) MarkPrivateMessageAsRead(ctx context.Context, form model.MarkPrivateMessageAsRead) (model.PrivateMessageResponse, error) {
	var out model.PrivateMessageResponse
	err := c.do(ctx, http.MethodPost, "/private_message/mark_as_read", form.Auth, nil, form, &out)
	return out, err
}

func (c *Client) CreatePrivateMessageReport(ctx context.Context, form model.CreatePrivateMessageReport) (model.PrivateMessageReportResponse, error) {
	var out model.PrivateMessageReportResponse
	err := c.do(ctx, http.MethodPost, "/private_message/report", form.Auth, nil, form, &out)
	return out, err
}

// PurgePerson is admin-only.
func (c *Client) PurgePerson(ctx context.Context, form model.PurgePerson) (model.PurgeItemResponse, error) {
	var out model.PurgeItemResponse
	err := c.do(ctx, http.MethodPost, "/admin/purge/person", form.Auth, nil, form, &out)
	return out, err
}
