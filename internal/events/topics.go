package events

// Topic constants for domain events emitted by the platform.
const (
	TopicTradeRecorded   = "trade.recorded"
	TopicInvoiceRendered = "invoice.rendered"
	TopicPartyUpdated    = "party.updated"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicTradeRecorded,
		TopicInvoiceRendered,
		TopicPartyUpdated,
	}
}
