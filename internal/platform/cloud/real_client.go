package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// RealClient implements Driver (plus the NetworkLister and
// SecurityGroupLister capabilities) against the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	location string

	pollInterval time.Duration
	runTimeout   time.Duration
}

var (
	_ Driver              = (*RealClient)(nil)
	_ NetworkLister       = (*RealClient)(nil)
	_ SecurityGroupLister = (*RealClient)(nil)
)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithHCloudClient sets a custom hcloud client (useful for testing against
// a stub API server).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithPollInterval sets the status poll interval for WaitUntilRunning.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *RealClient) {
		c.pollInterval = d
	}
}

// WithRunTimeout bounds how long WaitUntilRunning waits for a node.
func WithRunTimeout(d time.Duration) ClientOption {
	return func(c *RealClient) {
		c.runTimeout = d
	}
}

// NewRealClient creates a RealClient authenticated with the given token.
// Servers and volumes are created in the given location.
func NewRealClient(token, location string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:       hcloud.NewClient(hcloud.WithToken(token)),
		location:     location,
		pollInterval: 5 * time.Second,
		runTimeout:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListImages returns the backend image catalog.
func (c *RealClient) ListImages(ctx context.Context) ([]Image, error) {
	images, err := c.client.Image.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	out := make([]Image, 0, len(images))
	for _, img := range images {
		name := img.Name
		if name == "" {
			name = img.Description
		}
		out = append(out, Image{ID: fmt.Sprintf("%d", img.ID), Name: name})
	}
	return out, nil
}

// ListSizes returns the backend server type catalog.
func (c *RealClient) ListSizes(ctx context.Context) ([]Size, error) {
	types, err := c.client.ServerType.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list server types: %w", err)
	}
	out := make([]Size, 0, len(types))
	for _, st := range types {
		out = append(out, Size{
			ID:    fmt.Sprintf("%d", st.ID),
			Name:  st.Name,
			RAM:   int(st.Memory * 1024),
			Disk:  st.Disk,
			VCPUs: st.Cores,
		})
	}
	return out, nil
}

// ListNetworks returns all networks in the project.
func (c *RealClient) ListNetworks(ctx context.Context) ([]Network, error) {
	networks, err := c.client.Network.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	out := make([]Network, 0, len(networks))
	for _, n := range networks {
		out = append(out, Network{ID: fmt.Sprintf("%d", n.ID), Name: n.Name})
	}
	return out, nil
}

// ListSecurityGroups returns all firewalls in the project. Hetzner Cloud
// firewalls play the security group role.
func (c *RealClient) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	firewalls, err := c.client.Firewall.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list firewalls: %w", err)
	}
	out := make([]SecurityGroup, 0, len(firewalls))
	for _, fw := range firewalls {
		out = append(out, SecurityGroup{ID: fmt.Sprintf("%d", fw.ID), Name: fw.Name})
	}
	return out, nil
}

// resolveLocation resolves the configured location name.
func (c *RealClient) resolveLocation(ctx context.Context) (*hcloud.Location, error) {
	if c.location == "" {
		return nil, nil
	}
	loc, _, err := c.client.Location.Get(ctx, c.location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", c.location, err)
	}
	if loc == nil {
		return nil, fmt.Errorf("location not found: %s", c.location)
	}
	return loc, nil
}
