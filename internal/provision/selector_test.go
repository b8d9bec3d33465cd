package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
)

func TestSelectSize_SmallestSatisfyingAllMinimums(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Size{
		{ID: "s", RAM: 4000, Disk: 10, VCPUs: 1},
		{ID: "m", RAM: 8000, Disk: 20, VCPUs: 2},
		{ID: "l", RAM: 16000, Disk: 40, VCPUs: 4},
	}
	got, err := SelectSize(config.Machine{RAM: 8000, Disk: 20, CPUs: 1}, catalog)
	require.NoError(t, err)
	assert.Equal(t, "m", got.ID)
}

func TestSelectSize_NoMatch(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Size{
		{ID: "s", RAM: 4000, Disk: 10, VCPUs: 1},
	}
	_, err := SelectSize(config.Machine{RAM: 8000, Disk: 20, CPUs: 1}, catalog)
	assert.ErrorIs(t, err, ErrNoMatchingSize)
}

func TestSelectSize_EmptyCatalog(t *testing.T) {
	t.Parallel()
	_, err := SelectSize(config.Machine{RAM: 1, Disk: 1, CPUs: 1}, nil)
	assert.ErrorIs(t, err, ErrNoMatchingSize)
}

func TestSelectSize_EveryMinimumEnforced(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		size    cloud.Size
		wantErr bool
	}{
		{name: "ram too small", size: cloud.Size{RAM: 7999, Disk: 20, VCPUs: 1}, wantErr: true},
		{name: "disk too small", size: cloud.Size{RAM: 8000, Disk: 19, VCPUs: 1}, wantErr: true},
		{name: "cpus too small", size: cloud.Size{RAM: 8000, Disk: 20, VCPUs: 0}, wantErr: true},
		{name: "exact fit", size: cloud.Size{RAM: 8000, Disk: 20, VCPUs: 1}, wantErr: false},
	}
	req := config.Machine{RAM: 8000, Disk: 20, CPUs: 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectSize(req, []cloud.Size{tt.size})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoMatchingSize)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectSize_TieBreaksOnDiskThenVCPUs(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Size{
		{ID: "big-disk", RAM: 8000, Disk: 100, VCPUs: 2},
		{ID: "more-cpus", RAM: 8000, Disk: 20, VCPUs: 8},
		{ID: "cheapest", RAM: 8000, Disk: 20, VCPUs: 2},
	}
	got, err := SelectSize(config.Machine{RAM: 8000, Disk: 20, CPUs: 2}, catalog)
	require.NoError(t, err)
	assert.Equal(t, "cheapest", got.ID)
}

func TestSelectSize_ResultNeverDominated(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Size{
		{ID: "a", RAM: 32000, Disk: 10, VCPUs: 1},
		{ID: "b", RAM: 9000, Disk: 500, VCPUs: 16},
		{ID: "c", RAM: 9000, Disk: 30, VCPUs: 2},
		{ID: "d", RAM: 12000, Disk: 25, VCPUs: 2},
	}
	req := config.Machine{RAM: 8000, Disk: 20, CPUs: 1}
	got, err := SelectSize(req, catalog)
	require.NoError(t, err)
	for _, other := range catalog {
		if other.ID == got.ID {
			continue
		}
		if other.RAM < req.RAM || other.Disk < req.Disk || other.VCPUs < req.CPUs {
			continue
		}
		dominates := other.RAM <= got.RAM && other.Disk <= got.Disk && other.VCPUs <= got.VCPUs &&
			sizeLess(other, got)
		assert.False(t, dominates, "size %s dominates selected %s", other.ID, got.ID)
	}
}

func TestSelectImage_SpacedPattern(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Image{
		{ID: "1", Name: "CentOS 7.2 minimal"},
		{ID: "2", Name: "Ubuntu 16.04 LTS"},
	}
	got, err := SelectImage("ubuntu", "16.04", catalog)
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestSelectImage_HyphenFallback(t *testing.T) {
	t.Parallel()
	// The spaced pattern matches nothing, so the hyphenated form wins.
	catalog := []cloud.Image{
		{ID: "1", Name: "centos-7.2-server"},
		{ID: "2", Name: "ubuntu-16.04-server"},
	}
	got, err := SelectImage("ubuntu", "16.04", catalog)
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestSelectImage_SpacedPatternPreferred(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Image{
		{ID: "hyphen", Name: "ubuntu-16.04-server"},
		{ID: "spaced", Name: "Ubuntu 16.04 server"},
	}
	got, err := SelectImage("ubuntu", "16.04", catalog)
	require.NoError(t, err)
	assert.Equal(t, "spaced", got.ID)
}

func TestSelectImage_FirstMatchInCatalogOrder(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Image{
		{ID: "first", Name: "ubuntu-16.04-server"},
		{ID: "second", Name: "ubuntu-16.04-minimal"},
	}
	got, err := SelectImage("ubuntu", "16.04", catalog)
	require.NoError(t, err)
	assert.Equal(t, "first", got.ID)
}

func TestSelectImage_NoMatch(t *testing.T) {
	t.Parallel()
	catalog := []cloud.Image{
		{ID: "1", Name: "debian-9-server"},
	}
	_, err := SelectImage("ubuntu", "16.04", catalog)
	assert.ErrorIs(t, err, ErrNoMatchingImage)
}
