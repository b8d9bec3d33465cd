// Package cloud provides the backend driver abstraction for node and
// volume provisioning, with a Hetzner Cloud implementation.
package cloud

import "context"

// Image is one entry of the backend's image catalog.
type Image struct {
	ID   string
	Name string
}

// Size is one entry of the backend's machine size catalog. RAM is in MB,
// Disk in GB.
type Size struct {
	ID    string
	Name  string
	RAM   int
	Disk  int
	VCPUs int
}

// Network is an attachable backend network.
type Network struct {
	ID   string
	Name string
}

// SecurityGroup is a backend firewall/security group.
type SecurityGroup struct {
	ID   string
	Name string
}

// Node is a backend compute instance.
type Node struct {
	ID   string
	Name string
	IPs  []string
}

// Volume is a backend block volume.
type Volume struct {
	ID   string
	Name string
}

// NodeCreateOpts holds all parameters for creating a node.
type NodeCreateOpts struct {
	Name           string
	Size           Size
	Image          Image
	UserData       string
	Networks       []Network
	SecurityGroups []SecurityGroup
}

// Catalog lists the backend's provisioning inventory.
type Catalog interface {
	ListImages(ctx context.Context) ([]Image, error)
	ListSizes(ctx context.Context) ([]Size, error)
}

// NodeManager manages the node lifecycle.
type NodeManager interface {
	// CreateNode creates a node. Backend rejections (quota, invalid
	// request) are returned marked non-retryable.
	CreateNode(ctx context.Context, opts NodeCreateOpts) (*Node, error)
	// WaitUntilRunning blocks until the backend reports the node running
	// and returns the node with its assigned IP addresses.
	WaitUntilRunning(ctx context.Context, node *Node) (*Node, error)
	ListNodes(ctx context.Context) ([]Node, error)
	DestroyNode(ctx context.Context, node *Node) error
}

// VolumeService manages block volumes.
type VolumeService interface {
	CreateVolume(ctx context.Context, size int, name string) (*Volume, error)
	AttachVolume(ctx context.Context, node *Node, volume *Volume) error
	DetachVolume(ctx context.Context, volume *Volume) error
	DestroyVolume(ctx context.Context, volume *Volume) error
	ListVolumes(ctx context.Context) ([]Volume, error)
}

// Driver is the full backend surface the provisioner depends on.
type Driver interface {
	Catalog
	NodeManager
	VolumeService
}

// NetworkLister is an optional driver capability. Drivers that cannot
// enumerate networks simply do not implement it.
type NetworkLister interface {
	ListNetworks(ctx context.Context) ([]Network, error)
}

// SecurityGroupLister is an optional driver capability.
type SecurityGroupLister interface {
	ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error)
}
