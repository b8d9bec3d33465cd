package provision

import (
	"context"
	"sync"

	"github.com/minhlongdo/teuthology/internal/platform/cloud"
)

// listing memoizes one backend listing call.
type listing[T any] struct {
	once sync.Once
	val  []T
	err  error
}

func (l *listing[T]) get(fetch func() ([]T, error)) ([]T, error) {
	l.once.Do(func() {
		l.val, l.err = fetch()
	})
	return l.val, l.err
}

// Inventory caches the backend catalogs for one provisioning session.
// Each accessor performs at most one backend listing call; a single
// provisioning decision touches the catalogs several times and must not
// pay a round-trip each time.
//
// Network and security group listing are optional driver capabilities.
// A driver without them yields empty lists, with a warning, not an error.
type Inventory struct {
	driver cloud.Driver
	obs    Observer

	images         listing[cloud.Image]
	sizes          listing[cloud.Size]
	networks       listing[cloud.Network]
	securityGroups listing[cloud.SecurityGroup]
}

// NewInventory creates an inventory over the given driver.
func NewInventory(driver cloud.Driver, obs Observer) *Inventory {
	return &Inventory{driver: driver, obs: obs}
}

// Images returns the backend image catalog.
func (inv *Inventory) Images(ctx context.Context) ([]cloud.Image, error) {
	return inv.images.get(func() ([]cloud.Image, error) {
		return inv.driver.ListImages(ctx)
	})
}

// Sizes returns the backend machine size catalog.
func (inv *Inventory) Sizes(ctx context.Context) ([]cloud.Size, error) {
	return inv.sizes.get(func() ([]cloud.Size, error) {
		return inv.driver.ListSizes(ctx)
	})
}

// Networks returns the backend's networks, or an empty list if the driver
// cannot enumerate them.
func (inv *Inventory) Networks(ctx context.Context) ([]cloud.Network, error) {
	return inv.networks.get(func() ([]cloud.Network, error) {
		lister, ok := inv.driver.(cloud.NetworkLister)
		if !ok {
			inv.obs.Printf("unable to list networks for %T", inv.driver)
			return nil, nil
		}
		return lister.ListNetworks(ctx)
	})
}

// SecurityGroups returns the backend's security groups, or an empty list
// if the driver cannot enumerate them.
func (inv *Inventory) SecurityGroups(ctx context.Context) ([]cloud.SecurityGroup, error) {
	return inv.securityGroups.get(func() ([]cloud.SecurityGroup, error) {
		lister, ok := inv.driver.(cloud.SecurityGroupLister)
		if !ok {
			inv.obs.Printf("unable to list security groups for %T", inv.driver)
			return nil, nil
		}
		return lister.ListSecurityGroups(ctx)
	})
}
