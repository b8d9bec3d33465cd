package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DefaultsWhenAllSourcesNil(t *testing.T) {
	t.Parallel()
	got := Resolve(nil, nil, nil)
	assert.Equal(t, Machine{RAM: 8000, Disk: 20, CPUs: 1}, got.Machine)
	assert.Equal(t, Volumes{Count: 0, Size: 0}, got.Volumes)
}

func TestResolve_ExplicitWinsWholesale(t *testing.T) {
	t.Parallel()
	explicit := &Topics{Machine: &Machine{RAM: 2000, Disk: 50, CPUs: 3}}
	backend := &Topics{
		Machine: &Machine{RAM: 9999, Disk: 99, CPUs: 9},
		Volumes: &Volumes{Count: 2, Size: 10},
	}
	got := Resolve(explicit, backend, nil)
	// Machine comes wholesale from explicit, volumes fall through to backend.
	assert.Equal(t, Machine{RAM: 2000, Disk: 50, CPUs: 3}, got.Machine)
	assert.Equal(t, Volumes{Count: 2, Size: 10}, got.Volumes)
}

func TestResolve_TopicsResolveIndependently(t *testing.T) {
	t.Parallel()
	explicit := &Topics{Volumes: &Volumes{Count: 4, Size: 100}}
	legacy := &Topics{Machine: &Machine{RAM: 16000, Disk: 40, CPUs: 4}}
	got := Resolve(explicit, nil, legacy)
	assert.Equal(t, Machine{RAM: 16000, Disk: 40, CPUs: 4}, got.Machine)
	assert.Equal(t, Volumes{Count: 4, Size: 100}, got.Volumes)
}

func TestResolve_NoDeepMerge(t *testing.T) {
	t.Parallel()
	// A higher-precedence source with a zero field still wins wholesale;
	// lower sources must not fill in the gaps.
	explicit := &Topics{Machine: &Machine{RAM: 4000}}
	backend := &Topics{Machine: &Machine{RAM: 8000, Disk: 20, CPUs: 1}}
	got := Resolve(explicit, backend, nil)
	assert.Equal(t, Machine{RAM: 4000, Disk: 0, CPUs: 0}, got.Machine)
}

func TestResolve_LegacyBeatsDefaults(t *testing.T) {
	t.Parallel()
	legacy := &Topics{Volumes: &Volumes{Count: 1, Size: 5}}
	got := Resolve(nil, nil, legacy)
	assert.Equal(t, Volumes{Count: 1, Size: 5}, got.Volumes)
	assert.Equal(t, Machine{RAM: 8000, Disk: 20, CPUs: 1}, got.Machine)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
token: secret
location: nbg1
nsupdate_url: http://ns.example.com/update
security_groups: [teuthology]
backend:
  machine:
    ram: 8000
    disk: 20
    cpus: 1
  volumes:
    count: 2
    size: 10
`)
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", f.Token)
	assert.Equal(t, "nbg1", f.Location)
	assert.Equal(t, []string{"teuthology"}, f.SecurityGroups)
	assert.Equal(t, "ubuntu", f.SSHUser, "default ssh user")
	require.NotNil(t, f.Backend)
	assert.Equal(t, &Machine{RAM: 8000, Disk: 20, CPUs: 1}, f.Backend.Machine)
	assert.Equal(t, &Volumes{Count: 2, Size: 10}, f.Backend.Volumes)
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "token: [unterminated")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_RejectsVolumesWithoutSize(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
backend:
  volumes:
    count: 3
    size: 0
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume size")
}

func TestLoadFile_RejectsNegativeMachine(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
legacy:
  machine:
    ram: -1
`)
	_, err := LoadFile(path)
	assert.Error(t, err)
}
