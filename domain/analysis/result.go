package analysis

import (
	apperrors "goinsight/internal/errors"
)

// Result is the uniform success/failure envelope returned by every
// orchestration call. Exactly one variant is populated.
type Result[T any] struct {
	ok      bool
	data    T
	code    string
	message string
	details map[string]any
}

// Ok wraps a successful payload
func Ok[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Fail converts a taxonomy error into a failure envelope, keeping its
// message and detail map. A nil or message-less error is a programmer
// error and panics.
func Fail[T any](err error) Result[T] {
	if err == nil {
		panic("analysis: Fail called with nil error")
	}
	r := FailMessage[T](apperrors.MessageOf(err), apperrors.DetailsOf(err))
	r.code = apperrors.CodeOf(err)
	return r
}

// FailMessage builds a failure envelope directly. The message is mandatory.
func FailMessage[T any](message string, details map[string]any) Result[T] {
	if message == "" {
		panic("analysis: failure result requires a message")
	}
	return Result[T]{code: apperrors.CodeApplication, message: message, details: details}
}

// OK reports whether the result is the success variant
func (r Result[T]) OK() bool {
	return r.ok
}

// Data returns the success payload. Calling it on a failure is a
// programmer error and panics.
func (r Result[T]) Data() T {
	if !r.ok {
		panic("analysis: Data called on failure result")
	}
	return r.data
}

// Code returns the failure's taxonomy code. Calling it on a success panics.
func (r Result[T]) Code() string {
	if r.ok {
		panic("analysis: Code called on success result")
	}
	return r.code
}

// Message returns the failure message. Calling it on a success panics.
func (r Result[T]) Message() string {
	if r.ok {
		panic("analysis: Message called on success result")
	}
	return r.message
}

// Details returns the failure detail map. Calling it on a success panics.
func (r Result[T]) Details() map[string]any {
	if r.ok {
		panic("analysis: Details called on success result")
	}
	return r.details
}
