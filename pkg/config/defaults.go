package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotelier"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Human-readable ID generation.
	IDStrategyRandom     = "random"
	IDStrategySequential = "sequential"
	DefaultIDStrategy    = IDStrategyRandom
	DefaultIDSuffixWidth = 6

	DefaultTakeawayMaxOrdersPerSlot = 5

	DefaultReminderSweepInterval = 1 * time.Minute

	DefaultSMTPPort = "587"
	DefaultSMTPFrom = "noreply@hotelier.local"

	DefaultKafkaEventTopic = "hotelier.events"
)
