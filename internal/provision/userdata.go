package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SentinelPath is touched by the guest's first-boot automation once
// package installation and key setup finish. Its existence is the
// readiness signal the prober waits for.
const SentinelPath = "/.teuth_provisioned"

// defaultPubkeyPath is the controller-side public key appended to the
// node's authorized keys when present.
const defaultPubkeyPath = "~/.ssh/id_rsa.pub"

// cloudConfig is the guest bootstrap payload rendered into user data.
type cloudConfig struct {
	User              string     `yaml:"user"`
	ManageEtcHosts    bool       `yaml:"manage_etc_hosts"`
	Hostname          string     `yaml:"hostname"`
	Packages          []string   `yaml:"packages"`
	RunCmd            [][]string `yaml:"runcmd"`
	SSHAuthorizedKeys []string   `yaml:"ssh_authorized_keys,omitempty"`
}

// Userdata renders the cloud-config document for a new node: login user,
// hostname, managed /etc/hosts, base packages, a cleared console password,
// and the command that touches the readiness sentinel. The controller
// host's SSH public key is appended to authorized keys when one exists.
func Userdata(user, hostname string) (string, error) {
	return userdata(user, hostname, defaultPubkeyPath)
}

func userdata(user, hostname, pubkeyPath string) (string, error) {
	doc := cloudConfig{
		User:           user,
		ManageEtcHosts: true,
		Hostname:       hostname,
		Packages:       []string{"git", "wget", "python"},
		RunCmd: [][]string{
			// Remove the user's password so console logins are possible.
			{"passwd", "-d", user},
			{"touch", SentinelPath},
		},
	}
	if pubkey := readUserSSHPubkey(pubkeyPath); pubkey != "" {
		doc.SSHAuthorizedKeys = append(doc.SSHAuthorizedKeys, pubkey)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to render cloud-config: %w", err)
	}
	return "#cloud-config\n" + string(data), nil
}

// readUserSSHPubkey reads the public key at path, expanding a leading ~.
// A missing or unreadable key is not an error; the node is still usable
// through the backend's own key mechanisms.
func readUserSSHPubkey(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, path[2:])
	}
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
