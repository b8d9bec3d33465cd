package ssh

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// generateTestKey generates an ed25519 private key in OpenSSH PEM form.
func generateTestKey(t *testing.T) []byte {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "test")
	require.NoError(t, err)
	return pem.EncodeToMemory(block)
}

func TestNewClient_Success(t *testing.T) {
	t.Parallel()
	client, err := NewClient(&Config{
		Host:       "192.0.2.10",
		User:       "ubuntu",
		PrivateKey: generateTestKey(t),
	})
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, defaultPort, client.config.Port)
	assert.Equal(t, defaultDialTimeout, client.config.DialTimeout)
	assert.NotNil(t, client.config.HostKeyCallback)
}

func TestNewClient_NilConfig(t *testing.T) {
	t.Parallel()
	_, err := NewClient(nil)
	require.Error(t, err)
	assert.Equal(t, "config cannot be nil", err.Error())
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()
	key := generateTestKey(t)
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty host", cfg: Config{User: "u", PrivateKey: key}},
		{name: "empty user", cfg: Config{Host: "h", PrivateKey: key}},
		{name: "empty key", cfg: Config{Host: "h", User: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(&tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewClient_InvalidKey(t *testing.T) {
	t.Parallel()
	_, err := NewClient(&Config{
		Host:       "192.0.2.10",
		User:       "ubuntu",
		PrivateKey: []byte("not a key"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestNewClient_DoesNotMutateCaller(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Host:       "192.0.2.10",
		User:       "ubuntu",
		PrivateKey: generateTestKey(t),
	}
	_, err := NewClient(cfg)
	require.NoError(t, err)
	assert.Zero(t, cfg.Port)
	assert.Zero(t, cfg.DialTimeout)
}

func TestConnect_RefusedConnection(t *testing.T) {
	t.Parallel()
	// TEST-NET address with a reserved port; the dial must fail fast.
	client, err := NewClient(&Config{
		Host:        "127.0.0.1",
		Port:        1, // nothing listens here
		User:        "ubuntu",
		PrivateKey:  generateTestKey(t),
		DialTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	err = client.Connect(context.Background())
	assert.Error(t, err)
}

func TestConnect_ContextCancelled(t *testing.T) {
	t.Parallel()
	client, err := NewClient(&Config{
		Host:        "203.0.113.1", // blackhole address, dial will hang
		User:        "ubuntu",
		PrivateKey:  generateTestKey(t),
		DialTimeout: 30 * time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = client.Connect(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
