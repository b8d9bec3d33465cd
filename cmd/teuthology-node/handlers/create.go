// Package handlers implements the execution logic behind the CLI
// commands: wiring configuration, the cloud driver, and a provisioning
// session together.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
	"github.com/minhlongdo/teuthology/internal/platform/dns"
	"github.com/minhlongdo/teuthology/internal/platform/ssh"
	"github.com/minhlongdo/teuthology/internal/provision"
)

// CreateOptions holds the parameters for the create command.
type CreateOptions struct {
	ConfigPath  string
	Name        string
	OSType      string
	OSVersion   string
	MetricsAddr string
}

// Create provisions one node end to end.
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, token, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	obs := newObserver()
	if opts.MetricsAddr != "" {
		go serveMetrics(opts.MetricsAddr, obs)
	}

	key, err := readPrivateKey(cfg.SSHKeyPath)
	if err != nil {
		return err
	}
	runnerFactory := func(host string) (provision.RemoteRunner, error) {
		return ssh.NewClient(&ssh.Config{
			Host:       host,
			User:       cfg.SSHUser,
			PrivateKey: key,
		})
	}

	sessionOpts := []provision.SessionOption{provision.WithObserver(obs)}
	if cfg.NsupdateURL != "" {
		sessionOpts = append(sessionOpts, provision.WithDNS(dns.NewClient(cfg.NsupdateURL)))
	}

	session := provision.NewSession(
		cloud.NewRealClient(token, cfg.Location),
		provision.Spec{
			Name:           opts.Name,
			OSType:         opts.OSType,
			OSVersion:      opts.OSVersion,
			User:           cfg.SSHUser,
			SecurityGroups: cfg.SecurityGroups,
		},
		config.Resolve(nil, cfg.Backend, cfg.Legacy),
		runnerFactory,
		sessionOpts...,
	)

	node, err := session.Create(ctx)
	if err != nil {
		return err
	}
	obs.Printf("node %s is ready at %v", node.Name, node.IPs)
	return nil
}

// loadConfig loads the file configuration and resolves the backend token,
// with the environment taking precedence over the file.
func loadConfig(path string) (*config.File, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("config file is required (use --config)")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	token := cfg.Token
	if envToken := os.Getenv("HCLOUD_TOKEN"); envToken != "" {
		token = envToken
	}
	if token == "" {
		return nil, "", fmt.Errorf("backend token is required (in config or env HCLOUD_TOKEN)")
	}
	return cfg, token, nil
}

// readPrivateKey reads the probe key, expanding a leading ~.
func readPrivateKey(path string) ([]byte, error) {
	if path == "" {
		path = "~/.ssh/id_rsa"
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	key, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key: %w", err)
	}
	return key, nil
}

// newObserver builds the zap-backed observer used by both commands.
func newObserver() provision.Observer {
	logger, err := zap.NewProduction()
	if err != nil {
		return provision.NewConsoleObserver()
	}
	return provision.NewLogrObserver(zapr.NewLogger(logger))
}

func serveMetrics(addr string, obs provision.Observer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		obs.Printf("metrics server failed: %v", err)
	}
}
