package provision

import (
	"context"
	"fmt"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
	"github.com/minhlongdo/teuthology/internal/util/naming"
)

// VolumeManager creates, attaches, and tears down the block volumes of
// one node. Volume names carry the node name as a prefix, which is the
// sole recovery mechanism for teardown once in-memory handles are gone.
type VolumeManager struct {
	driver cloud.Driver
	obs    Observer
}

// NewVolumeManager creates a volume manager over the given driver.
func NewVolumeManager(driver cloud.Driver, obs Observer) *VolumeManager {
	return &VolumeManager{driver: driver, obs: obs}
}

// CreateAndAttach creates spec.Count volumes of spec.Size GB and attaches
// them to the node one at a time, in index order, so device assignment
// stays deterministic and a partial failure rolls back cleanly. On any
// create or attach failure everything this call created is torn down
// before the *VolumeError is returned; the caller never cleans up
// partially-created volumes itself.
func (m *VolumeManager) CreateAndAttach(ctx context.Context, node *cloud.Node, spec config.Volumes) ([]cloud.Volume, error) {
	if spec.Count == 0 {
		return nil, nil
	}

	created := make([]cloud.Volume, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		name := naming.Volume(node.Name, i, spec.Count)

		volume, err := m.driver.CreateVolume(ctx, spec.Size, name)
		if err != nil {
			m.rollback(ctx, node.Name)
			return nil, &VolumeError{Node: node.Name, Err: fmt.Errorf("create volume %s: %w", name, err)}
		}
		m.obs.Printf("created volume %s (%d GB)", volume.Name, spec.Size)
		created = append(created, *volume)

		if err := m.driver.AttachVolume(ctx, node, volume); err != nil {
			m.rollback(ctx, node.Name)
			return nil, &VolumeError{Node: node.Name, Err: fmt.Errorf("attach volume %s: %w", name, err)}
		}
	}
	return created, nil
}

func (m *VolumeManager) rollback(ctx context.Context, nodeName string) {
	volumeRollbacksTotal.Inc()
	// The failed call may have been cancelled; cleanup still has to run.
	m.Teardown(context.WithoutCancel(ctx), nodeName)
}

// Teardown detaches and destroys every backend volume whose name carries
// the node's prefix. Each step is best effort: a stuck volume is logged
// and skipped so it cannot block cleanup of its siblings.
func (m *VolumeManager) Teardown(ctx context.Context, nodeName string) {
	volumes, err := m.driver.ListVolumes(ctx)
	if err != nil {
		m.obs.Printf("could not list volumes for teardown of %s: %v", nodeName, err)
		return
	}
	for i := range volumes {
		volume := &volumes[i]
		if !naming.IsVolumeOf(volume.Name, nodeName) {
			continue
		}
		if err := m.driver.DetachVolume(ctx, volume); err != nil {
			m.obs.Printf("could not detach volume %s: %v", volume.Name, err)
		}
		if err := m.driver.DestroyVolume(ctx, volume); err != nil {
			m.obs.Printf("could not destroy volume %s: %v", volume.Name, err)
		}
	}
}
