package domain

// WorkspaceContext identifies the umbrella workspace a run operates on: the
// root path of the umbrella repository and the managed sub-repositories the
// fan-out runner iterates over. It is loaded from the workspace manifest and
// passed in explicitly so pipeline construction never depends on ambient
// process state.

type WorkspaceContext struct {
	Root  string
	Repos []string
}
