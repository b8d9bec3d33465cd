// Package ssh provides the SSH transport for the readiness probe: a
// single-attempt connectivity check and remote command execution with a
// deadline. Retrying connection attempts is the caller's concern.
//
// Host key verification is disabled by default; the nodes probed here are
// ephemeral test machines that did not exist a minute earlier.
package ssh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout is the timeout for establishing the TCP connection and
	// handshake. If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification. If nil,
	// ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Client opens connections to one remote host. The private key is parsed
// once at construction; connections are made per call.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a client for the host described by cfg.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Ephemeral test nodes
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Connect performs a single SSH handshake and closes the connection. It
// returns the dial or authentication error unmodified so callers can
// decide whether to keep retrying.
func (c *Client) Connect(ctx context.Context) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	return client.Close()
}

// Run executes a command on the remote host, bounded by timeout when it is
// positive. The connection is torn down when the deadline expires, which
// aborts the remote command.
func (c *Client) Run(ctx context.Context, command string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("command failed on %s: %w", c.config.Host, err)
		}
		return nil
	case <-ctx.Done():
		_ = client.Close()
		return fmt.Errorf("command timed out on %s: %w", c.config.Host, ctx.Err())
	}
}

// dial opens one SSH connection, honoring context cancellation.
func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	type dialResult struct {
		client *ssh.Client
		err    error
	}
	result := make(chan dialResult, 1)
	go func() {
		client, err := ssh.Dial("tcp", addr, config)
		result <- dialResult{client: client, err: err}
	}()

	select {
	case r := <-result:
		return r.client, r.err
	case <-ctx.Done():
		go func() {
			if r := <-result; r.client != nil {
				_ = r.client.Close()
			}
		}()
		return nil, ctx.Err()
	}
}
