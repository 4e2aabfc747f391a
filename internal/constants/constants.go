// Package constants defines global constants used throughout vpnforge.
// It includes version information, paths, logical resource names and defaults.
package constants

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of vpnforge.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool.
const ProjectName = "vpnforge"

// Environment represents the execution environment (e.g., CLI, Lambda).
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)
