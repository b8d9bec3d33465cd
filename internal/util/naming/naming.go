// Package naming defines the naming scheme for provisioned resources.
//
// Volume names carry the owning node's name as a prefix so that teardown
// can rediscover a node's volumes from the backend inventory alone, even
// after in-memory handles are lost.
package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// Volume returns the name for the index-th of count volumes belonging to
// the named node. Indexes are zero padded to the width of count-1 so the
// names of one node's volume set sort lexically.
func Volume(node string, index, count int) string {
	width := len(strconv.Itoa(count - 1))
	return fmt.Sprintf("%s_%0*d", node, width, index)
}

// VolumePrefix returns the prefix shared by all volume names of the node.
func VolumePrefix(node string) string {
	return node + "_"
}

// IsVolumeOf reports whether the volume name belongs to the named node.
func IsVolumeOf(volume, node string) bool {
	return strings.HasPrefix(volume, VolumePrefix(node))
}
