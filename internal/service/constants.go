package service

import "time"

// Timeout constants for service operations
const (
	// DefaultStepTimeout bounds one delegated runner invocation. Pushes
	// across many sub-repositories can be slow on bad links.
	DefaultStepTimeout = 15 * time.Minute
	// DefaultDockerTimeout bounds one docker build. The scientific stack
	// compiles for a long time.
	DefaultDockerTimeout = 4 * time.Hour
)
