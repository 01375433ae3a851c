package adminfront

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	authScheme          = "Bearer"
)

var _ http.RoundTripper = &Transport{}

// Transport is the request authorizer: an http.RoundTripper that decorates
// every protected request with the stored credential using a single
// transport convention, the Authorization bearer header.
//
// Reactions are uniform across all call sites:
//   - empty store on a protected request: ErrCredentialMissing, no dial
//   - 401 response: the store is cleared and ErrUnauthenticated is returned
//   - 403 response: ErrForbidden, store untouched
//
// Requests marked with WithAnonymous bypass the credential entirely.
type Transport struct {
	Store  CredentialStore
	Base   http.RoundTripper
	Logger Logger
}

func NewTransport(store CredentialStore) *Transport {
	return &Transport{
		Store:  store,
		Logger: defLogger{},
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return defLogger{}
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// mutated; decoration happens on a clone.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if IsAnonymous(req.Context()) {
		return t.base().RoundTrip(req)
	}

	credential, ok := t.Store.Get()
	if !ok {
		t.logger().Debug("request rejected locally, no credential", "path", req.URL.Path)
		return nil, ErrCredentialMissing
	}

	authorized := req.Clone(req.Context())
	authorized.Header.Set(headerAuthorization, authScheme+" "+credential)
	authorized.Header.Set(headerRequestID, uuid.NewString())

	resp, err := t.base().RoundTrip(authorized)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		drain(resp)
		t.Store.Clear()
		t.logger().Info("credential rejected by backend, store cleared", "path", req.URL.Path)
		return nil, ErrUnauthenticated
	case http.StatusForbidden:
		drain(resp)
		return nil, ErrForbidden
	}

	return resp, nil
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
}
