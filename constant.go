// FILE: constant.go
package sink

import (
	"time"
)

// Rotation strategies applied when all retention slots are full
const (
	StrategyDeleteOld  = "deleteOld"
	StrategyArchiveOld = "archiveOld"
)

// Suffix appended to rotated files by the archiveOld strategy
const archiveSuffix = ".gz"

// Metrics
const (
	// Number of write latency samples kept for the running average
	latencyWindowSize = 100
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
)
