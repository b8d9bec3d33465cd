package provision

// NodeState is the lifecycle state of a session's node. The forward path
// is Requested → Running → VolumesAttached → DnsRegistered → Ready, with
// VolumesAttached skipped when no volumes are requested.
type NodeState string

const (
	StateRequested       NodeState = "requested"
	StateRunning         NodeState = "running"
	StateVolumesAttached NodeState = "volumes-attached"
	StateDNSRegistered   NodeState = "dns-registered"
	StateReady           NodeState = "ready"
	StateDestroyed       NodeState = "destroyed"
	StateFailed          NodeState = "failed"
)
