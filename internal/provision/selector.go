package provision

import (
	"fmt"
	"strings"

	"github.com/minhlongdo/teuthology/internal/config"
	"github.com/minhlongdo/teuthology/internal/platform/cloud"
)

// SelectSize returns the cheapest catalog size satisfying all three
// machine minimums: the minimum of the satisfying set by lexicographic
// order on (RAM, disk, vCPUs).
func SelectSize(req config.Machine, catalog []cloud.Size) (cloud.Size, error) {
	var best cloud.Size
	found := false
	for _, size := range catalog {
		if size.RAM < req.RAM || size.Disk < req.Disk || size.VCPUs < req.CPUs {
			continue
		}
		if !found || sizeLess(size, best) {
			best = size
			found = true
		}
	}
	if !found {
		return cloud.Size{}, fmt.Errorf("%w: ram>=%d disk>=%d cpus>=%d",
			ErrNoMatchingSize, req.RAM, req.Disk, req.CPUs)
	}
	return best, nil
}

func sizeLess(a, b cloud.Size) bool {
	if a.RAM != b.RAM {
		return a.RAM < b.RAM
	}
	if a.Disk != b.Disk {
		return a.Disk < b.Disk
	}
	return a.VCPUs < b.VCPUs
}

// SelectImage returns the catalog image matching the OS type and version.
// Two textual patterns are tried in order, "type version" then
// "type-version", each as a case-insensitive substring of the image name;
// the first pattern with any match wins and the first match in catalog
// order is returned.
func SelectImage(osType, osVersion string, catalog []cloud.Image) (cloud.Image, error) {
	patterns := []string{
		fmt.Sprintf("%s %s", osType, osVersion),
		fmt.Sprintf("%s-%s", osType, osVersion),
	}
	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		for _, image := range catalog {
			if strings.Contains(strings.ToLower(image.Name), pattern) {
				return image, nil
			}
		}
	}
	return cloud.Image{}, fmt.Errorf("%w: %s %s", ErrNoMatchingImage, osType, osVersion)
}
