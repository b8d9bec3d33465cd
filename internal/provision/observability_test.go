package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFields(t *testing.T) {
	t.Parallel()
	assert.Empty(t, formatFields(nil))
	assert.Equal(t, "[node=n1]", formatFields(map[string]string{"node": "n1"}))
	assert.Equal(t, "[a=1 b=2]", formatFields(map[string]string{"b": "2", "a": "1"}),
		"fields are emitted in sorted key order")
}

func TestConsoleObserver_WithFieldsMerges(t *testing.T) {
	t.Parallel()
	base := NewConsoleObserver()
	derived := base.WithFields(map[string]string{"node": "n1"})
	further := derived.WithFields(map[string]string{"step": "create"})

	d, ok := further.(*ConsoleObserver)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"node": "n1", "step": "create"}, d.contextFields)
	assert.Empty(t, base.contextFields, "derivation must not mutate the parent")
}
