// internal/repo/errors.go
package repo

import (
	"context"
	"errors"
	"strings"
)

// ErrorKind classifies a failed native call so callers can react without
// string-matching git output themselves.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorNotARepository
	ErrorLockContention
	ErrorNativeCallFailed
	ErrorAuthenticationRequired
	ErrorNetworkUnavailable
	ErrorWatchSetupFailed
	ErrorCancelled // internal, never user-visible
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNotARepository:
		return "not a git repository"
	case ErrorLockContention:
		return "repository is locked"
	case ErrorNativeCallFailed:
		return "git call failed"
	case ErrorAuthenticationRequired:
		return "authentication required"
	case ErrorNetworkUnavailable:
		return "network unavailable"
	case ErrorWatchSetupFailed:
		return "filesystem watch setup failed"
	case ErrorCancelled:
		return "cancelled"
	default:
		return "unknown error"
	}
}

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrLockContention = errors.New("index is locked by another process")
)

// Classify maps an error from a repository call to its ErrorKind.
// Exec-git failures carry stderr in the error text, so classification
// is substring-based the way git's own porcelain consumers do it.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCancelled
	}
	if errors.Is(err, ErrNotARepository) {
		return ErrorNotARepository
	}
	if errors.Is(err, ErrLockContention) {
		return ErrorLockContention
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not a git repository"),
		strings.Contains(msg, "repository does not exist"):
		return ErrorNotARepository
	case strings.Contains(msg, "index.lock"),
		strings.Contains(msg, "unable to lock"),
		strings.Contains(msg, "another git process"):
		return ErrorLockContention
	case strings.Contains(msg, "authentication"),
		strings.Contains(msg, "permission denied (publickey"),
		strings.Contains(msg, "could not read username"),
		strings.Contains(msg, "invalid credentials"):
		return ErrorAuthenticationRequired
	case strings.Contains(msg, "could not resolve host"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection timed out"),
		strings.Contains(msg, "network is unreachable"):
		return ErrorNetworkUnavailable
	case strings.Contains(msg, "cancel"):
		return ErrorCancelled
	default:
		return ErrorNativeCallFailed
	}
}
