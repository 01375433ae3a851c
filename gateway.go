package adminfront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// Gateway drives one credential lifecycle against the backend:
// Anonymous -> Authenticated -> Anonymous. Login stores the issued
// credential, Revoke discards it, and everything in between goes through
// the request authorizer so an expired session is handled in one place.
type Gateway struct {
	baseURL string
	store   CredentialStore
	client  *http.Client
	logger  Logger
}

// NewGateway returns a Gateway for the backend at baseURL. The credential
// store is shared with the Transport wired into the HTTP client, so a 401
// on any call invalidates the session for every subsequent one.
func NewGateway(baseURL string, store CredentialStore) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  defLogger{},
		client: &http.Client{
			Transport: NewTransport(store),
		},
	}
}

func (g *Gateway) WithLogger(logger Logger) *Gateway {
	g.logger = logger
	if t, ok := g.client.Transport.(*Transport); ok {
		t.Logger = logger
	}
	return g
}

// WithHTTPClient swaps the underlying client, rewrapping its transport so
// credential attachment keeps working. Use it to control timeouts or to
// point the gateway at a test server.
func (g *Gateway) WithHTTPClient(client *http.Client) *Gateway {
	if client == nil {
		return g
	}
	if _, ok := client.Transport.(*Transport); !ok {
		client.Transport = &Transport{
			Store:  g.store,
			Base:   client.Transport,
			Logger: g.logger,
		}
	}
	g.client = client
	return g
}

// Store exposes the credential store backing this gateway.
func (g *Gateway) Store() CredentialStore {
	return g.store
}

// Authenticated reports whether a credential is currently held. It is a
// purely local probe; the backend may still reject the credential.
func (g *Gateway) Authenticated() bool {
	_, ok := g.store.Get()
	return ok
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
}

// Login authenticates against the backend and stores the issued credential
// on success. Expected rejections, wrong credentials, unknown user, or an
// account flagged for password reset, come back as displayable auth errors
// and never mutate the credential store.
func (g *Gateway) Login(ctx context.Context, username, password string) error {
	err := validation.Errors{
		"username": validation.Validate(username, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	if err != nil {
		return validationError(err)
	}

	body := map[string]string{"username": username, "password": password}

	resp, err := g.send(WithAnonymous(ctx), http.MethodPost, "/auth/login", body)
	if err != nil {
		return err
	}

	out := loginResponse{}
	status, raw, readErr := readBody(resp)
	if readErr != nil {
		return transportError(readErr)
	}
	// Rejection bodies share the success shape, so decode unconditionally.
	json.Unmarshal(raw, &out)

	switch status {
	case http.StatusOK:
		if !out.Success || out.Token == "" {
			return loginRejected(out.Message)
		}
		g.store.Set(out.Token)
		g.logger.Debug("login succeeded", "user_id", out.UserID)
		return nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
		return loginRejected(out.Message)
	default:
		return backendError(status, out.Message)
	}
}

func loginRejected(message string) error {
	if message == "" {
		message = "invalid username or password"
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(textCodeLoginRejected).
		WithCode(goerrors.CodeUnauthorized)
}

type userInfoResponse struct {
	Username  string   `json:"username"`
	IsAdmin   bool     `json:"isAdmin"`
	UserID    int64    `json:"user_id"`
	LastLogin *apiTime `json:"lastLogin"`
}

// Whoami fetches the current principal. The read is fresh on every call;
// nothing is cached because the backend owns fields like last login.
func (g *Gateway) Whoami(ctx context.Context) (*Principal, error) {
	out := userInfoResponse{}
	if err := g.doJSON(ctx, http.MethodGet, "/auth/user-info", nil, &out); err != nil {
		return nil, err
	}

	return &Principal{
		ID:          out.UserID,
		Username:    out.Username,
		IsAdmin:     out.IsAdmin,
		LastLoginAt: out.LastLogin.timePtr(),
	}, nil
}

// Revoke ends the session. The remote logout is best effort; the local
// clear is mandatory and happens even when the backend is unreachable.
func (g *Gateway) Revoke(ctx context.Context) {
	defer g.store.Clear()

	if !g.Authenticated() {
		return
	}

	if err := g.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		g.logger.Info("remote logout failed, clearing session locally", "error", err)
	}
}

// ChangePassword updates the password of the logged-in user.
func (g *Gateway) ChangePassword(ctx context.Context, newPassword string) error {
	if err := validation.Validate(newPassword, validation.Required); err != nil {
		return validationError(fmt.Errorf("new_password: %w", err))
	}

	body := map[string]string{"new_password": newPassword}
	return g.doJSON(ctx, http.MethodPost, "/auth/change_password", body, nil)
}

type lastLoginResponse struct {
	LastLogin *apiTime `json:"last_login"`
}

// LastLogin fetches the previous login timestamp of the current user.
// Returns nil when the account has never logged in before.
func (g *Gateway) LastLogin(ctx context.Context) (*time.Time, error) {
	out := lastLoginResponse{}
	if err := g.doJSON(ctx, http.MethodGet, "/auth/last_login", nil, &out); err != nil {
		return nil, err
	}
	return out.LastLogin.timePtr(), nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// send issues a single request. Transport failures and authorizer
// rejections come back already mapped into the shared taxonomy.
func (g *Gateway) send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, transportError(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, transportError(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, transportError(err)
	}

	return resp, nil
}

// doJSON issues an authorized request and decodes a 2xx body into out.
// Non-2xx statuses are mapped through backendError with the backend's own
// {message} body.
func (g *Gateway) doJSON(ctx context.Context, method, path string, payload, out any) error {
	resp, err := g.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	status, raw, readErr := readBody(resp)
	if readErr != nil {
		return transportError(readErr)
	}

	if status < 200 || status >= 300 {
		msg := messageResponse{}
		json.Unmarshal(raw, &msg)
		return backendError(status, msg.Message)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return transportError(err)
		}
	}
	return nil
}

func readBody(resp *http.Response) (int, []byte, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, raw, err
}
