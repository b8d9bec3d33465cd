package cloud

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/minhlongdo/teuthology/internal/util/retry"
)

// CreateNode creates a server from the given options. Backend rejections
// are wrapped with retry.Fatal so callers do not retry them.
func (c *RealClient) CreateNode(ctx context.Context, opts NodeCreateOpts) (*Node, error) {
	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, _, err := c.client.Server.Create(ctx, createOpts)
	if err != nil {
		if IsRejected(err) {
			return nil, retry.Fatal(fmt.Errorf("backend rejected node %s: %w", opts.Name, err))
		}
		return nil, fmt.Errorf("failed to create node %s: %w", opts.Name, err)
	}

	if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
		return nil, fmt.Errorf("failed to wait for node creation: %w", err)
	}

	return nodeFromServer(result.Server), nil
}

// buildServerCreateOpts resolves backend objects referenced by the opts.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts NodeCreateOpts) (hcloud.ServerCreateOpts, error) {
	sizeID, err := strconv.ParseInt(opts.Size.ID, 10, 64)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid size identifier %q: %w", opts.Size.ID, err)
	}
	imageID, err := strconv.ParseInt(opts.Image.ID, 10, 64)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid image identifier %q: %w", opts.Image.ID, err)
	}

	loc, err := c.resolveLocation(ctx)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: &hcloud.ServerType{ID: sizeID},
		Image:      &hcloud.Image{ID: imageID},
		UserData:   opts.UserData,
		Location:   loc,
	}

	for _, n := range opts.Networks {
		id, err := strconv.ParseInt(n.ID, 10, 64)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid network identifier %q: %w", n.ID, err)
		}
		createOpts.Networks = append(createOpts.Networks, &hcloud.Network{ID: id})
	}
	for _, sg := range opts.SecurityGroups {
		id, err := strconv.ParseInt(sg.ID, 10, 64)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid security group identifier %q: %w", sg.ID, err)
		}
		createOpts.Firewalls = append(createOpts.Firewalls, &hcloud.ServerCreateFirewall{
			Firewall: hcloud.Firewall{ID: id},
		})
	}

	return createOpts, nil
}

// WaitUntilRunning polls the server status until the backend reports it
// running, then returns the node with its assigned IP addresses.
func (c *RealClient) WaitUntilRunning(ctx context.Context, node *Node) (*Node, error) {
	ctx, cancel := context.WithTimeout(ctx, c.runTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		server, _, err := c.client.Server.Get(ctx, node.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get node %s: %w", node.Name, err)
		}
		if server == nil {
			return nil, fmt.Errorf("node disappeared while waiting: %s", node.Name)
		}
		if server.Status == hcloud.ServerStatusRunning {
			return nodeFromServer(server), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("node %s never reached running state: %w", node.Name, ctx.Err())
		case <-ticker.C:
		}
	}
}

// ListNodes returns all servers in the project.
func (c *RealClient) ListNodes(ctx context.Context) ([]Node, error) {
	servers, err := c.client.Server.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	out := make([]Node, 0, len(servers))
	for _, s := range servers {
		out = append(out, *nodeFromServer(s))
	}
	return out, nil
}

// DestroyNode deletes the server. A node that is already gone is not an
// error.
func (c *RealClient) DestroyNode(ctx context.Context, node *Node) error {
	server, _, err := c.client.Server.Get(ctx, node.Name)
	if err != nil {
		return fmt.Errorf("failed to get node %s: %w", node.Name, err)
	}
	if server == nil {
		return nil
	}
	_, _, err = c.client.Server.DeleteWithResult(ctx, server)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to destroy node %s: %w", node.Name, err)
	}
	return nil
}

// nodeFromServer maps an hcloud server onto the driver node type.
func nodeFromServer(s *hcloud.Server) *Node {
	node := &Node{
		ID:   fmt.Sprintf("%d", s.ID),
		Name: s.Name,
	}
	if s.PublicNet.IPv4.IP != nil {
		node.IPs = append(node.IPs, s.PublicNet.IPv4.IP.String())
	}
	if s.PublicNet.IPv6.IP != nil {
		node.IPs = append(node.IPs, s.PublicNet.IPv6.IP.String())
	}
	for _, pn := range s.PrivateNet {
		if pn.IP != nil {
			node.IPs = append(node.IPs, pn.IP.String())
		}
	}
	return node
}
