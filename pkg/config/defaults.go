package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "guesthouse"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr    = ""
	DefaultRedisDB      = 0
	DefaultRoomCacheTTL = 5 * time.Minute

	DefaultPort = "8080"

	DefaultAuthTokenPrefix         = "clerk"
	DefaultAuthJWKSRefreshInterval = 1 * time.Hour

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultKafkaEnabled          = false
	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "booking-events-dlq"
	DefaultNotificationsGroupID  = "guesthouse-notifications"

	DefaultRecentBookingsLimit = 5
	DefaultPaginationLimit     = 100
	DefaultLogLevel            = "info"
)

var DefaultPhoneRegions = []string{"IN", "US"}
