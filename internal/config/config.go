// Package config holds the typed configuration for node provisioning and
// the precedence rules that merge it from its several sources.
package config

// Machine holds the minimum resource requirements for a provisioned node.
type Machine struct {
	RAM  int `yaml:"ram"`
	Disk int `yaml:"disk"`
	CPUs int `yaml:"cpus"`
}

// Volumes describes the block volumes to create and attach per node.
type Volumes struct {
	Count int `yaml:"count"`
	Size  int `yaml:"size"`
}

// Topics is one source of provisioning configuration. Nil fields mean the
// source does not speak to that topic.
type Topics struct {
	Machine *Machine `yaml:"machine"`
	Volumes *Volumes `yaml:"volumes"`
}

// Resolved is the effective provisioning configuration after precedence
// resolution. Both topics are always populated.
type Resolved struct {
	Machine Machine
	Volumes Volumes
}

// defaults are the compiled-in fallbacks used when no source configures a
// topic.
var defaults = Topics{
	Machine: &Machine{RAM: 8000, Disk: 20, CPUs: 1},
	Volumes: &Volumes{Count: 0, Size: 0},
}

// Resolve merges configuration sources topic by topic. For each topic the
// first source with a non-nil value wins wholesale; there is no deep merge
// across sources. Precedence, highest first: the explicit per-call
// configuration, the backend-named section of the file configuration, the
// legacy global section, then compiled-in defaults.
func Resolve(explicit, backend, legacy *Topics) Resolved {
	var out Resolved
	machineSet := false
	volumesSet := false
	for _, src := range []*Topics{explicit, backend, legacy, &defaults} {
		if src == nil {
			continue
		}
		if !machineSet && src.Machine != nil {
			out.Machine = *src.Machine
			machineSet = true
		}
		if !volumesSet && src.Volumes != nil {
			out.Volumes = *src.Volumes
			volumesSet = true
		}
	}
	return out
}
