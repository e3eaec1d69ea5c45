package transport

import "fmt"

// ConnectionError covers dial and subsystem failures: the feed server was
// never usable this run.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("sftp connect %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthError means the server was reachable but rejected our credentials.
// Operators fix this one, not dealers.
type AuthError struct {
	Host string
	User string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sftp auth %s@%s: %v", e.User, e.Host, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError means the feed file is absent — usually the dealer forgot to
// export. Recoverable and reportable, distinct from generic I/O failure.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feed file not found: %s", e.Path)
}
