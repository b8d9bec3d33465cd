package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
	"github.com/minhlongdo/teuthology/internal/platform/dns"
)

// settleDelay is how long a session waits after the node reports running
// before probing begins. Guest-side cloud-init network bring-up is
// asynchronous and unobservable from outside.
const settleDelay = 20 * time.Second

// Spec describes one node to provision.
type Spec struct {
	// Name is the node name, unique per session. It doubles as the
	// hostname in the guest bootstrap payload and as the prefix of the
	// node's volume names.
	Name string

	// OSType and OSVersion select the image, e.g. "ubuntu" "16.04".
	OSType    string
	OSVersion string

	// User is the login user created on the node.
	User string

	// SecurityGroups are human-readable names resolved against the
	// backend at creation time. Zero or more than one match per name is
	// an error, never a silent default.
	SecurityGroups []string
}

// RunnerFactory builds the remote shell used for readiness probing once
// the node's address is known.
type RunnerFactory func(host string) (RemoteRunner, error)

// Session drives the lifecycle of exactly one node. It holds no
// process-wide state; concurrent provisioning is done with concurrent
// sessions.
type Session struct {
	driver  cloud.Driver
	inv     *Inventory
	volumes *VolumeManager
	dns     *dns.Client
	runner  RunnerFactory
	obs     Observer

	spec Spec
	conf config.Resolved

	node  *cloud.Node
	state NodeState

	settleDelay time.Duration
	proberOpts  []ProberOption
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithObserver sets the session's observer.
func WithObserver(obs Observer) SessionOption {
	return func(s *Session) {
		s.obs = obs
	}
}

// WithDNS enables DNS registration through the given client.
func WithDNS(client *dns.Client) SessionOption {
	return func(s *Session) {
		s.dns = client
	}
}

// WithSettleDelay overrides the post-running settle delay.
func WithSettleDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.settleDelay = d
	}
}

// WithProberOptions forwards options to the readiness prober.
func WithProberOptions(opts ...ProberOption) SessionOption {
	return func(s *Session) {
		s.proberOpts = opts
	}
}

// NewSession creates a session for one node. conf is the already-resolved
// provisioning configuration (config.Resolve); runner builds the
// readiness probe transport once the node has an address.
func NewSession(driver cloud.Driver, spec Spec, conf config.Resolved, runner RunnerFactory, opts ...SessionOption) *Session {
	s := &Session{
		driver:      driver,
		runner:      runner,
		obs:         NewConsoleObserver(),
		spec:        spec,
		conf:        conf,
		settleDelay: settleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.obs = s.obs.WithFields(map[string]string{"node": spec.Name})
	s.inv = NewInventory(driver, s.obs)
	s.volumes = NewVolumeManager(driver, s.obs)
	return s
}

// State returns the node's current lifecycle state.
func (s *Session) State() NodeState {
	return s.state
}

// Create provisions the node end to end and returns it once it is ready.
// A failed creation leaves no billable node or volumes behind: every
// failure after the backend create takes the destroy path before the
// error is returned.
func (s *Session) Create(ctx context.Context) (*cloud.Node, error) {
	start := time.Now()
	node, err := s.create(ctx)
	if err != nil {
		s.state = StateFailed
		provisionTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	provisionTotal.WithLabelValues("success").Inc()
	provisionDuration.Observe(time.Since(start).Seconds())
	return node, nil
}

func (s *Session) create(ctx context.Context) (*cloud.Node, error) {
	s.state = StateRequested

	opts, err := s.buildCreateOpts(ctx)
	if err != nil {
		return nil, err
	}

	s.obs.Printf("creating node (size %s, image %s)", opts.Size.Name, opts.Image.Name)
	node, err := s.driver.CreateNode(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create node %s: %w", s.spec.Name, err)
	}

	node, err = s.driver.WaitUntilRunning(ctx, node)
	if err != nil {
		s.cleanupAfterFailure(ctx)
		return nil, fmt.Errorf("node %s did not start: %w", s.spec.Name, err)
	}
	s.node = node
	s.state = StateRunning
	s.obs.Printf("node is running with addresses %v", node.IPs)

	if s.conf.Volumes.Count > 0 {
		if _, err := s.volumes.CreateAndAttach(ctx, node, s.conf.Volumes); err != nil {
			// The volume manager already rolled back its own volumes;
			// the node itself still has to go. The volume error is
			// surfaced, not masked by cleanup.
			s.cleanupAfterFailure(ctx)
			return nil, err
		}
		s.state = StateVolumesAttached
	}

	if err := s.registerDNS(ctx, node); err != nil {
		s.cleanupAfterFailure(ctx)
		return nil, err
	}
	s.state = StateDNSRegistered

	select {
	case <-ctx.Done():
		s.cleanupAfterFailure(ctx)
		return nil, ctx.Err()
	case <-time.After(s.settleDelay):
	}

	if err := s.waitForReady(ctx, node); err != nil {
		s.cleanupAfterFailure(ctx)
		return nil, err
	}

	s.state = StateReady
	return node, nil
}

// buildCreateOpts selects size and image and resolves the optional
// network and security group attachments.
func (s *Session) buildCreateOpts(ctx context.Context) (cloud.NodeCreateOpts, error) {
	sizes, err := s.inv.Sizes(ctx)
	if err != nil {
		return cloud.NodeCreateOpts{}, fmt.Errorf("failed to list sizes: %w", err)
	}
	size, err := SelectSize(s.conf.Machine, sizes)
	if err != nil {
		return cloud.NodeCreateOpts{}, err
	}

	images, err := s.inv.Images(ctx)
	if err != nil {
		return cloud.NodeCreateOpts{}, fmt.Errorf("failed to list images: %w", err)
	}
	image, err := SelectImage(s.spec.OSType, s.spec.OSVersion, images)
	if err != nil {
		return cloud.NodeCreateOpts{}, err
	}

	networks, err := s.inv.Networks(ctx)
	if err != nil {
		return cloud.NodeCreateOpts{}, fmt.Errorf("failed to list networks: %w", err)
	}

	groups, err := s.resolveSecurityGroups(ctx)
	if err != nil {
		return cloud.NodeCreateOpts{}, err
	}

	userData, err := Userdata(s.spec.User, s.spec.Name)
	if err != nil {
		return cloud.NodeCreateOpts{}, err
	}

	return cloud.NodeCreateOpts{
		Name:           s.spec.Name,
		Size:           size,
		Image:          image,
		UserData:       userData,
		Networks:       networks,
		SecurityGroups: groups,
	}, nil
}

// resolveSecurityGroups maps each configured group name to exactly one
// backend group.
func (s *Session) resolveSecurityGroups(ctx context.Context) ([]cloud.SecurityGroup, error) {
	if len(s.spec.SecurityGroups) == 0 {
		return nil, nil
	}
	groups, err := s.inv.SecurityGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list security groups: %w", err)
	}

	out := make([]cloud.SecurityGroup, 0, len(s.spec.SecurityGroups))
	for _, name := range s.spec.SecurityGroups {
		var matches []cloud.SecurityGroup
		for _, group := range groups {
			if group.Name == name {
				matches = append(matches, group)
			}
		}
		if len(matches) != 1 {
			return nil, &SecurityGroupError{Name: name, Matches: len(matches)}
		}
		out = append(out, matches[0])
	}
	return out, nil
}

// registerDNS points the node's name at its first address. A node that
// booted but has no stable hostname is not provisioned, so a rejected
// update is fatal for the whole creation.
func (s *Session) registerDNS(ctx context.Context, node *cloud.Node) error {
	if s.dns == nil {
		s.obs.Printf("no dns endpoint configured, skipping registration")
		return nil
	}
	if len(node.IPs) == 0 {
		return fmt.Errorf("node %s has no address to register", node.Name)
	}
	if err := s.dns.Update(ctx, node.Name, node.IPs[0]); err != nil {
		return fmt.Errorf("failed to register dns for %s: %w", node.Name, err)
	}
	return nil
}

func (s *Session) waitForReady(ctx context.Context, node *cloud.Node) error {
	if len(node.IPs) == 0 {
		return fmt.Errorf("node %s has no address to probe", node.Name)
	}
	runner, err := s.runner(node.IPs[0])
	if err != nil {
		return fmt.Errorf("failed to build readiness probe for %s: %w", node.Name, err)
	}
	return NewProber(runner, s.obs, s.proberOpts...).WaitReady(ctx)
}

// cleanupAfterFailure runs the destroy path with cancellation stripped:
// an aborted provisioning attempt must still clean up after itself.
func (s *Session) cleanupAfterFailure(ctx context.Context) {
	if err := s.Destroy(context.WithoutCancel(ctx)); err != nil {
		s.obs.Printf("cleanup after failed provisioning: %v", err)
	}
}

// Destroy tears the node down: exact-name lookup, volume teardown by name
// prefix, then backend destroy. Volumes go first, unconditionally, so a
// node deletion failing partway cannot orphan billable storage. A node
// that does not exist is a successful no-op; a duplicated name is an
// *AmbiguousNodeError.
func (s *Session) Destroy(ctx context.Context) error {
	node, err := s.lookup(ctx)
	if err != nil {
		destroyTotal.WithLabelValues("failure").Inc()
		return err
	}
	if node == nil {
		s.obs.Printf("no node found, nothing to destroy")
		s.state = StateDestroyed
		return nil
	}

	s.obs.Printf("destroying node")
	s.volumes.Teardown(ctx, s.spec.Name)

	if err := s.driver.DestroyNode(ctx, node); err != nil {
		destroyTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to destroy node %s: %w", s.spec.Name, err)
	}
	destroyTotal.WithLabelValues("success").Inc()
	s.node = nil
	s.state = StateDestroyed
	return nil
}

// lookup finds the session's node by exact name. Zero matches is nil, not
// an error; more than one is an *AmbiguousNodeError.
func (s *Session) lookup(ctx context.Context) (*cloud.Node, error) {
	nodes, err := s.driver.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	var matches []cloud.Node
	for _, node := range nodes {
		if node.Name == s.spec.Name {
			matches = append(matches, node)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, &AmbiguousNodeError{Name: s.spec.Name, Count: len(matches)}
	}
}
