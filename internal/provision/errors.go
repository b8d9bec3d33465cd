package provision

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingSize means no catalog size satisfies all three
	// machine minimums.
	ErrNoMatchingSize = errors.New("no machine size satisfies the requirements")

	// ErrNoMatchingImage means no catalog image matches the requested
	// OS type and version under either naming pattern.
	ErrNoMatchingImage = errors.New("no image matches the requested OS")

	// ErrConnectivityTimeout means the node never accepted an SSH
	// handshake within the probe budget.
	ErrConnectivityTimeout = errors.New("node never became reachable over SSH")

	// ErrInitializationTimeout means the node was reachable but its
	// first-boot sentinel never appeared within the budget.
	ErrInitializationTimeout = errors.New("node never finished first-boot initialization")
)

// AmbiguousNodeError reports that more than one backend node carries the
// name the session owns. Names are the only synchronization mechanism
// between concurrent sessions, so a collision is never resolved silently.
type AmbiguousNodeError struct {
	Name  string
	Count int
}

func (e *AmbiguousNodeError) Error() string {
	return fmt.Sprintf("%d nodes found with name %q", e.Count, e.Name)
}

// SecurityGroupError reports that a configured security group name
// resolved to zero or more than one backend group.
type SecurityGroupError struct {
	Name    string
	Matches int
}

func (e *SecurityGroupError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("no security group found with name %q", e.Name)
	}
	return fmt.Sprintf("%d security groups found with name %q", e.Matches, e.Name)
}

// VolumeError wraps a volume create or attach failure. By the time the
// caller sees it, everything the failing call created has already been
// rolled back.
type VolumeError struct {
	Node string
	Err  error
}

func (e *VolumeError) Error() string {
	return fmt.Sprintf("volume provisioning for node %q failed: %v", e.Node, e.Err)
}

func (e *VolumeError) Unwrap() error {
	return e.Err
}
