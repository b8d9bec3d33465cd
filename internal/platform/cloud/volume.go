package cloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/minhlongdo/teuthology/internal/util/retry"
)

// CreateVolume creates a block volume of the given size in GB.
func (c *RealClient) CreateVolume(ctx context.Context, size int, name string) (*Volume, error) {
	loc, err := c.resolveLocation(ctx)
	if err != nil {
		return nil, err
	}

	result, _, err := c.client.Volume.Create(ctx, hcloud.VolumeCreateOpts{
		Name:     name,
		Size:     size,
		Location: loc,
	})
	if err != nil {
		if IsRejected(err) {
			return nil, retry.Fatal(fmt.Errorf("backend rejected volume %s: %w", name, err))
		}
		return nil, fmt.Errorf("failed to create volume %s: %w", name, err)
	}
	if result.Action != nil {
		if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
			return nil, fmt.Errorf("failed to wait for volume creation: %w", err)
		}
	}
	return &Volume{ID: fmt.Sprintf("%d", result.Volume.ID), Name: result.Volume.Name}, nil
}

// AttachVolume attaches the volume to the node. The device name is
// assigned by the backend.
func (c *RealClient) AttachVolume(ctx context.Context, node *Node, volume *Volume) error {
	vol, srv, err := c.resolveAttachment(ctx, node, volume)
	if err != nil {
		return err
	}

	var action *hcloud.Action
	// Volumes fresh out of creation can still be locked by the create
	// action; attachment is retried until the lock clears.
	err = retry.Do(ctx, func() error {
		var attachErr error
		action, _, attachErr = c.client.Volume.Attach(ctx, vol, srv)
		if attachErr != nil && !isResourceLocked(attachErr) {
			return retry.Fatal(attachErr)
		}
		return attachErr
	})
	if err != nil {
		return fmt.Errorf("failed to attach volume %s to %s: %w", volume.Name, node.Name, err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for volume attachment: %w", err)
	}
	return nil
}

// DetachVolume detaches the volume from whatever node it is attached to.
// Detaching a volume that is gone or already detached is a no-op.
func (c *RealClient) DetachVolume(ctx context.Context, volume *Volume) error {
	vol, _, err := c.client.Volume.Get(ctx, volume.Name)
	if err != nil {
		return fmt.Errorf("failed to get volume %s: %w", volume.Name, err)
	}
	if vol == nil || vol.Server == nil {
		return nil
	}
	action, _, err := c.client.Volume.Detach(ctx, vol)
	if err != nil {
		return fmt.Errorf("failed to detach volume %s: %w", volume.Name, err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for volume detachment: %w", err)
	}
	return nil
}

// DestroyVolume deletes the volume. A volume that is already gone is not
// an error.
func (c *RealClient) DestroyVolume(ctx context.Context, volume *Volume) error {
	vol, _, err := c.client.Volume.Get(ctx, volume.Name)
	if err != nil {
		return fmt.Errorf("failed to get volume %s: %w", volume.Name, err)
	}
	if vol == nil {
		return nil
	}
	if _, err := c.client.Volume.Delete(ctx, vol); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to destroy volume %s: %w", volume.Name, err)
	}
	return nil
}

// ListVolumes returns all volumes in the project.
func (c *RealClient) ListVolumes(ctx context.Context) ([]Volume, error) {
	volumes, err := c.client.Volume.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}
	out := make([]Volume, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, Volume{ID: fmt.Sprintf("%d", v.ID), Name: v.Name})
	}
	return out, nil
}

func (c *RealClient) resolveAttachment(ctx context.Context, node *Node, volume *Volume) (*hcloud.Volume, *hcloud.Server, error) {
	volID, err := strconv.ParseInt(volume.ID, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid volume identifier %q: %w", volume.ID, err)
	}
	srvID, err := strconv.ParseInt(node.ID, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid node identifier %q: %w", node.ID, err)
	}
	return &hcloud.Volume{ID: volID}, &hcloud.Server{ID: srvID}, nil
}
