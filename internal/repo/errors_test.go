// internal/repo/errors_test.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrorUnknown},
		{"context canceled", context.Canceled, ErrorCancelled},
		{"wrapped context canceled", fmt.Errorf("fetch: %w", context.Canceled), ErrorCancelled},
		{"sentinel not a repository", ErrNotARepository, ErrorNotARepository},
		{"wrapped sentinel", fmt.Errorf("/tmp/x: %w", ErrNotARepository), ErrorNotARepository},
		{"sentinel lock", ErrLockContention, ErrorLockContention},
		{"stderr not a repo", errors.New("fatal: not a git repository (or any of the parent directories)"), ErrorNotARepository},
		{"index.lock held", errors.New("fatal: Unable to create '/repo/.git/index.lock': File exists"), ErrorLockContention},
		{"another process", errors.New("Another git process seems to be running in this repository"), ErrorLockContention},
		{"auth required", errors.New("fatal: Authentication failed for 'https://example.com/repo.git'"), ErrorAuthenticationRequired},
		{"publickey denied", errors.New("git@github.com: Permission denied (publickey)."), ErrorAuthenticationRequired},
		{"no username", errors.New("fatal: could not read Username for 'https://github.com'"), ErrorAuthenticationRequired},
		{"dns failure", errors.New("fatal: unable to access: Could not resolve host: github.com"), ErrorNetworkUnavailable},
		{"connection refused", errors.New("ssh: connect to host example.com port 22: Connection refused"), ErrorNetworkUnavailable},
		{"unreachable", errors.New("connect: network is unreachable"), ErrorNetworkUnavailable},
		{"generic failure", errors.New("error: pathspec 'nope' did not match any file(s)"), ErrorNativeCallFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	if ErrorLockContention.String() != "repository is locked" {
		t.Errorf("ErrorLockContention.String() = %q", ErrorLockContention.String())
	}
	if ErrorKind(99).String() != "unknown error" {
		t.Errorf("unknown kind String() = %q", ErrorKind(99).String())
	}
}
