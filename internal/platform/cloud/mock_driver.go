package cloud

import (
	"context"
	"fmt"
)

// MockDriver is a func-field test double for Driver. Unset funcs return
// empty results so tests only wire the calls they care about.
//
// The optional lister capabilities live on MockCapableDriver so tests can
// choose whether the driver under test advertises them.
type MockDriver struct {
	ListImagesFunc       func(ctx context.Context) ([]Image, error)
	ListSizesFunc        func(ctx context.Context) ([]Size, error)
	CreateNodeFunc       func(ctx context.Context, opts NodeCreateOpts) (*Node, error)
	WaitUntilRunningFunc func(ctx context.Context, node *Node) (*Node, error)
	ListNodesFunc        func(ctx context.Context) ([]Node, error)
	DestroyNodeFunc      func(ctx context.Context, node *Node) error
	CreateVolumeFunc     func(ctx context.Context, size int, name string) (*Volume, error)
	AttachVolumeFunc     func(ctx context.Context, node *Node, volume *Volume) error
	DetachVolumeFunc     func(ctx context.Context, volume *Volume) error
	DestroyVolumeFunc    func(ctx context.Context, volume *Volume) error
	ListVolumesFunc      func(ctx context.Context) ([]Volume, error)
}

var _ Driver = (*MockDriver)(nil)

func (m *MockDriver) ListImages(ctx context.Context) ([]Image, error) {
	if m.ListImagesFunc != nil {
		return m.ListImagesFunc(ctx)
	}
	return nil, nil
}

func (m *MockDriver) ListSizes(ctx context.Context) ([]Size, error) {
	if m.ListSizesFunc != nil {
		return m.ListSizesFunc(ctx)
	}
	return nil, nil
}

func (m *MockDriver) CreateNode(ctx context.Context, opts NodeCreateOpts) (*Node, error) {
	if m.CreateNodeFunc != nil {
		return m.CreateNodeFunc(ctx, opts)
	}
	return &Node{ID: "1", Name: opts.Name}, nil
}

func (m *MockDriver) WaitUntilRunning(ctx context.Context, node *Node) (*Node, error) {
	if m.WaitUntilRunningFunc != nil {
		return m.WaitUntilRunningFunc(ctx, node)
	}
	return node, nil
}

func (m *MockDriver) ListNodes(ctx context.Context) ([]Node, error) {
	if m.ListNodesFunc != nil {
		return m.ListNodesFunc(ctx)
	}
	return nil, nil
}

func (m *MockDriver) DestroyNode(ctx context.Context, node *Node) error {
	if m.DestroyNodeFunc != nil {
		return m.DestroyNodeFunc(ctx, node)
	}
	return nil
}

func (m *MockDriver) CreateVolume(ctx context.Context, size int, name string) (*Volume, error) {
	if m.CreateVolumeFunc != nil {
		return m.CreateVolumeFunc(ctx, size, name)
	}
	return &Volume{ID: fmt.Sprintf("vol-%s", name), Name: name}, nil
}

func (m *MockDriver) AttachVolume(ctx context.Context, node *Node, volume *Volume) error {
	if m.AttachVolumeFunc != nil {
		return m.AttachVolumeFunc(ctx, node, volume)
	}
	return nil
}

func (m *MockDriver) DetachVolume(ctx context.Context, volume *Volume) error {
	if m.DetachVolumeFunc != nil {
		return m.DetachVolumeFunc(ctx, volume)
	}
	return nil
}

func (m *MockDriver) DestroyVolume(ctx context.Context, volume *Volume) error {
	if m.DestroyVolumeFunc != nil {
		return m.DestroyVolumeFunc(ctx, volume)
	}
	return nil
}

func (m *MockDriver) ListVolumes(ctx context.Context) ([]Volume, error) {
	if m.ListVolumesFunc != nil {
		return m.ListVolumesFunc(ctx)
	}
	return nil, nil
}

// MockCapableDriver is a MockDriver that also advertises the network and
// security group listing capabilities.
type MockCapableDriver struct {
	MockDriver

	ListNetworksFunc       func(ctx context.Context) ([]Network, error)
	ListSecurityGroupsFunc func(ctx context.Context) ([]SecurityGroup, error)
}

var (
	_ Driver              = (*MockCapableDriver)(nil)
	_ NetworkLister       = (*MockCapableDriver)(nil)
	_ SecurityGroupLister = (*MockCapableDriver)(nil)
)

func (m *MockCapableDriver) ListNetworks(ctx context.Context) ([]Network, error) {
	if m.ListNetworksFunc != nil {
		return m.ListNetworksFunc(ctx)
	}
	return nil, nil
}

func (m *MockCapableDriver) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	if m.ListSecurityGroupsFunc != nil {
		return m.ListSecurityGroupsFunc(ctx)
	}
	return nil, nil
}
