package adminfront

import "context"

var anonymousCtxKey = &contextKey{"anonymous"}

type contextKey struct {
	name string
}

// WithAnonymous marks a request context as targeting an endpoint that does
// not require a credential, e.g. login. The Transport passes such requests
// through without attaching or requiring the credential.
func WithAnonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousCtxKey, true)
}

// IsAnonymous reports whether the context was marked by WithAnonymous.
func IsAnonymous(ctx context.Context) bool {
	ok, _ := ctx.Value(anonymousCtxKey).(bool)
	return ok
}
