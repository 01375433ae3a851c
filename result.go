package adminfront

import goerrors "github.com/goliatone/go-errors"

// Result is the uniform envelope every operation hands to a view layer.
// Failure always carries a user-presentable message; success carries the
// operation's data when it has any.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OK builds a successful Result.
func OK[T any](data T, message ...string) Result[T] {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	return Result[T]{Success: true, Message: msg, Data: data}
}

// Fail builds a failed Result from an error, extracting the presentable
// message from the taxonomy when available.
func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Message: ErrorMessage(err)}
}

// NewResult folds a (data, err) pair into the envelope so view layers never
// need operation-specific error handling.
func NewResult[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return OK(data)
}

// Done folds an error-only operation into the envelope.
func Done(err error, message ...string) Result[struct{}] {
	if err != nil {
		return Fail[struct{}](err)
	}
	return OK(struct{}{}, message...)
}

// ErrorMessage returns a message safe to render to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}

	return "something went wrong, please try again"
}
