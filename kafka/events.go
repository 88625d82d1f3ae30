package kafka

// Kafka topics
const (
	TopicFavoriteEvents = "favorite-events"
)

// Record header keys
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)
