package provision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseUserdata(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "#cloud-config\n"))
	var out map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &out))
	return out
}

func TestUserdata_BaseDocument(t *testing.T) {
	t.Parallel()
	doc, err := userdata("ubuntu", "node-1", filepath.Join(t.TempDir(), "absent.pub"))
	require.NoError(t, err)

	parsed := parseUserdata(t, doc)
	assert.Equal(t, "ubuntu", parsed["user"])
	assert.Equal(t, "node-1", parsed["hostname"])
	assert.Equal(t, true, parsed["manage_etc_hosts"])
	assert.ElementsMatch(t, []interface{}{"git", "wget", "python"}, parsed["packages"])

	runcmd, ok := parsed["runcmd"].([]interface{})
	require.True(t, ok)
	require.Len(t, runcmd, 2)
	assert.Equal(t, []interface{}{"passwd", "-d", "ubuntu"}, runcmd[0])
	assert.Equal(t, []interface{}{"touch", SentinelPath}, runcmd[1])

	_, hasKeys := parsed["ssh_authorized_keys"]
	assert.False(t, hasKeys, "no key file, no authorized keys section")
}

func TestUserdata_IncludesControllerPubkey(t *testing.T) {
	t.Parallel()
	keyPath := filepath.Join(t.TempDir(), "id_rsa.pub")
	require.NoError(t, os.WriteFile(keyPath, []byte("ssh-rsa AAAA test@host\n"), 0o600))

	doc, err := userdata("ubuntu", "node-1", keyPath)
	require.NoError(t, err)

	parsed := parseUserdata(t, doc)
	keys, ok := parsed["ssh_authorized_keys"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"ssh-rsa AAAA test@host"}, keys)
}

func TestReadUserSSHPubkey_MissingFile(t *testing.T) {
	t.Parallel()
	assert.Empty(t, readUserSSHPubkey(filepath.Join(t.TempDir(), "nope.pub")))
}
