package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration for the provisioner.
type File struct {
	// Token authenticates against the cloud backend. May also be supplied
	// via the HCLOUD_TOKEN environment variable.
	Token string `yaml:"token"`

	// Location is the backend location servers and volumes are created in.
	Location string `yaml:"location"`

	// NsupdateURL is the base URL of the dynamic DNS update endpoint.
	// Empty disables DNS registration.
	NsupdateURL string `yaml:"nsupdate_url"`

	// SecurityGroups are human-readable names resolved against the
	// backend's security group inventory at node creation time.
	SecurityGroups []string `yaml:"security_groups"`

	// SSHUser and SSHKeyPath configure the readiness probe connection.
	SSHUser    string `yaml:"ssh_user"`
	SSHKeyPath string `yaml:"ssh_key_path"`

	// Backend is the backend-named configuration section; it loses to an
	// explicit per-call configuration and wins over Legacy.
	Backend *Topics `yaml:"backend"`

	// Legacy is the global configuration section kept for compatibility
	// with older deployments.
	Legacy *Topics `yaml:"legacy"`
}

// LoadFile reads and parses the provisioner configuration from a YAML file.
func LoadFile(path string) (*File, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if f.SSHUser == "" {
		f.SSHUser = "ubuntu"
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &f, nil
}

// Validate checks the file configuration for values that cannot work.
func (f *File) Validate() error {
	for _, t := range []*Topics{f.Backend, f.Legacy} {
		if t == nil {
			continue
		}
		if t.Machine != nil {
			if t.Machine.RAM < 0 || t.Machine.Disk < 0 || t.Machine.CPUs < 0 {
				return fmt.Errorf("machine requirements must not be negative")
			}
		}
		if t.Volumes != nil {
			if t.Volumes.Count < 0 {
				return fmt.Errorf("volume count must not be negative")
			}
			if t.Volumes.Count > 0 && t.Volumes.Size <= 0 {
				return fmt.Errorf("volume size must be positive when volumes are requested")
			}
		}
	}
	return nil
}
