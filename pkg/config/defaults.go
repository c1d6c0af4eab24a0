// Package config provides YAML-based configuration for cubetree.
package config

import "time"

// Reboot defaults.
const (
	DefaultInitBound   = 50
	DefaultDefaultPart = 2
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultEngineTimeout bounds a single script evaluation.
const DefaultEngineTimeout = 5 * time.Second

// Mesh defaults.
const (
	DefaultMeshCells     = 200
	DefaultMeshMaxLeaves = 256
)

// DefaultVerifyMaxCells caps the voxel grid used by verify (256^3).
const DefaultVerifyMaxCells = 1 << 24
