package orchestrator

import (
	"os"
	"strconv"
	"time"
)

// Timeout and retry constants for orchestrated workflows
var (
	// DefaultWorkflowTimeout bounds a full approved pipeline run
	DefaultWorkflowTimeout = getDurationOrDefault("RELCUT_WORKFLOW_TIMEOUT", 60*time.Minute)
	// PublishRetryCount is the number of retries for GitHub release calls
	PublishRetryCount = getCountOrDefault("RELCUT_PUBLISH_RETRIES", 3)
	// PublishRetryDelay is the initial delay for exponential backoff
	PublishRetryDelay = getDurationOrDefault("RELCUT_PUBLISH_RETRY_DELAY", 1*time.Second)
)

func getDurationOrDefault(envVar string, def time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	return def
}

func getCountOrDefault(envVar string, def uint64) uint64 {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.ParseUint(env, 10, 64); err == nil {
			return count
		}
	}
	return def
}
