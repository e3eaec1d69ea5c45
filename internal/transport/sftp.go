// Package transport retrieves raw feed files from dealer SFTP endpoints.
package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// Config describes one SFTP endpoint plus deployment-wide negotiation
// overrides. An explicit struct, built by the caller — no process-wide state.
//
// The algorithm allow-lists exist because several feed providers run SSH
// server versions whose default negotiated parameter sets are rejected by
// current client libraries; operators pin acceptable kex/host-key/cipher
// lists per deployment.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	KeyExchanges      []string
	HostKeyAlgorithms []string
	Ciphers           []string

	Timeout time.Duration
}

// Client fetches one file per connection. Connections are single-use: opened
// once, read once, closed once — no pooling across runs.
type Client struct {
	cfg Config
	log zerolog.Logger
}

// NewClient builds a Client for one endpoint.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, log: log}
}

// Fetch connects, verifies the remote file exists, and returns its bytes.
// The connection is released on every exit path.
func (c *Client) Fetch(ctx context.Context, remotePath string) ([]byte, error) {
	sshCfg := &ssh.ClientConfig{
		User: c.cfg.Username,
		Auth: []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		// Dealer feed hosts rotate keys without notice; host identity is not
		// part of this threat model, credentials are.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.cfg.Timeout,
	}
	if len(c.cfg.KeyExchanges) > 0 {
		sshCfg.Config.KeyExchanges = c.cfg.KeyExchanges
	}
	if len(c.cfg.Ciphers) > 0 {
		sshCfg.Config.Ciphers = c.cfg.Ciphers
	}
	if len(c.cfg.HostKeyAlgorithms) > 0 {
		sshCfg.HostKeyAlgorithms = c.cfg.HostKeyAlgorithms
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		if isAuthFailure(err) {
			return nil, &AuthError{Host: c.cfg.Host, User: c.cfg.Username, Err: err}
		}
		return nil, &ConnectionError{Host: c.cfg.Host, Err: err}
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return nil, &ConnectionError{Host: c.cfg.Host, Err: fmt.Errorf("sftp subsystem: %w", err)}
	}
	defer client.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stat before read so a missing export surfaces as NotFoundError instead
	// of a generic read failure.
	if _, err := client.Stat(remotePath); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: remotePath}
		}
		return nil, fmt.Errorf("stat %s: %w", remotePath, err)
	}

	f, err := client.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", remotePath, err)
	}

	c.log.Debug().Str("host", c.cfg.Host).Str("path", remotePath).Int("bytes", len(data)).Msg("feed file fetched")
	return data, nil
}

// isAuthFailure distinguishes credential rejection from network trouble.
// x/crypto/ssh wraps auth failures in a plain error, so string matching is
// the only handle the library gives us.
func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "password rejected")
}
