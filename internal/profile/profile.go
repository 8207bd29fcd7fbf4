// Where: deliriumctl/internal/profile/profile.go
// What: Deployment profile definitions and compose overlay mapping.
// Why: Profiles decide which compose files launch and which host ports must
//      be free, so the mapping lives in one table.
package profile

import (
	"os"
	"path/filepath"
	"strings"
)

// Profile names a deployment flavor.
type Profile string

const (
	Development    Profile = "development"
	ProductionTLS  Profile = "production-tls"
	ProductionHTTP Profile = "production-http"
)

// BaseFile is the compose file shared by every profile.
const BaseFile = "docker-compose.yml"

// All returns the selectable profiles in menu order.
func All() []Profile {
	return []Profile{Development, ProductionTLS, ProductionHTTP}
}

// Parse maps raw input to a profile. Unknown or blank input falls back to
// Development so an accidental Enter in the wizard stays harmless.
func Parse(raw string) Profile {
	switch Profile(strings.ToLower(strings.TrimSpace(raw))) {
	case ProductionTLS:
		return ProductionTLS
	case ProductionHTTP:
		return ProductionHTTP
	default:
		return Development
	}
}

// Valid reports whether p is one of the defined profiles.
func (p Profile) Valid() bool {
	switch p {
	case Development, ProductionTLS, ProductionHTTP:
		return true
	}
	return false
}

// Label returns the human-readable menu label.
func (p Profile) Label() string {
	switch p {
	case ProductionTLS:
		return "Production (TLS via Let's Encrypt)"
	case ProductionHTTP:
		return "Production (HTTP only)"
	default:
		return "Development (local, hot reload)"
	}
}

// OverlayNames returns the ordered compose file names for p, base first.
// Later files override earlier ones under compose merge semantics.
func (p Profile) OverlayNames() []string {
	switch p {
	case ProductionTLS:
		return []string{BaseFile, "docker-compose.prod.yml", "docker-compose.tls.yml"}
	case ProductionHTTP:
		return []string{BaseFile, "docker-compose.prod.yml"}
	default:
		return []string{BaseFile, "docker-compose.dev.yml"}
	}
}

// ComposeFiles returns absolute paths of the overlays for p under rootDir.
func (p Profile) ComposeFiles(rootDir string) []string {
	names := p.OverlayNames()
	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.Join(rootDir, name))
	}
	return files
}

// MissingFiles returns the overlay paths that do not exist yet under rootDir.
func (p Profile) MissingFiles(rootDir string) []string {
	var missing []string
	for _, file := range p.ComposeFiles(rootDir) {
		if _, err := os.Stat(file); err != nil {
			missing = append(missing, file)
		}
	}
	return missing
}

// RequiredPorts returns the host ports that must be free before launch.
// webPort is the published client port used by the development profile.
func (p Profile) RequiredPorts(webPort int) []int {
	switch p {
	case ProductionTLS:
		return []int{80, 443}
	case ProductionHTTP:
		return []int{80}
	default:
		return []int{webPort}
	}
}

// NeedsDomain reports whether p requires a public domain and contact email.
func (p Profile) NeedsDomain() bool {
	return p == ProductionTLS
}
