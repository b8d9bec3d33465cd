package handlers

import (
	"context"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
	"github.com/minhlongdo/teuthology/internal/provision"
)

// DestroyOptions holds the parameters for the destroy command.
type DestroyOptions struct {
	ConfigPath string
	Name       string
}

// Destroy removes a node and its attached volumes.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	cfg, token, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	obs := newObserver()
	session := provision.NewSession(
		cloud.NewRealClient(token, cfg.Location),
		provision.Spec{Name: opts.Name, User: cfg.SSHUser},
		config.Resolve(nil, cfg.Backend, cfg.Legacy),
		nil,
		provision.WithObserver(obs),
	)
	if err := session.Destroy(ctx); err != nil {
		return err
	}
	obs.Printf("node %s destroyed", opts.Name)
	return nil
}
