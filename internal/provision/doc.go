// Package provision implements the lifecycle of ephemeral test nodes on a
// cloud backend: selecting a machine size and image from the backend
// inventory, creating the node, attaching block volumes with rollback on
// partial failure, registering DNS, and probing until the node is
// reachable and finished with first-boot setup.
//
// A Session owns exactly one node from creation to destruction. Sessions
// share nothing, so callers may run any number of them concurrently; the
// only shared resource is the backend account itself, where exact-name
// lookup treats a duplicate name as an error rather than picking one.
package provision
