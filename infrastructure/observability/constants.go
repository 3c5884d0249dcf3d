package observability

// Metric name prefixes
const (
	MetricPrefix = "superfan"
)

// Metric names
const (
	// Points metrics
	PointsTransactionsTotal = MetricPrefix + ".points.transactions_total"

	// Redemption metrics
	RedemptionsTotal = MetricPrefix + ".redemptions.total"
	HoldsActive      = MetricPrefix + ".redemptions.holds_active"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelState     = "state"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"

	// Error labels
	LabelErrorType = "error_type"
)
