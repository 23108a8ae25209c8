package config

import "time"

// Polling and progress
const (
	// StatsPollInterval is how often bucket counts are refreshed
	StatsPollInterval = 10 * time.Second

	// ProgressInterval is how long each progress message stays on a busy submit button
	ProgressInterval = 2500 * time.Millisecond

	// DefaultAPITimeout bounds every backend call
	DefaultAPITimeout = 30 * time.Second
)

// ProgressMessages cycle on the generate button while a request is in flight
var ProgressMessages = []string{
	"Analyzing request...",
	"Consulting knowledge base...",
	"Drafting question...",
	"Checking Bloom's taxonomy...",
	"Finalizing output...",
}

// Activity log
const (
	// LogCapacity is the number of activity log entries kept in memory
	LogCapacity = 100

	// DashboardLogLines is how many entries the dashboards show
	DashboardLogLines = 12
)

// Form limits
const (
	MinMarks     = 1
	MaxMarks     = 100
	DefaultMarks = 5
)

// Metadata cache
const (
	DefaultMetadataCacheTTL = 10 * time.Minute
)

// Kafka
const (
	DefaultAuditTopic = "qbank.audit"
	AuditGroupID      = "qbank-audit-tail"
)
