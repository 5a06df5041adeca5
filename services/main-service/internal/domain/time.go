package domain

import "time"

// TimeLayout is the wire format for timestamps in requests, responses and stats queries.
const TimeLayout = "2006-01-02 15:04:05"

const (
	// MinInitiatorLeadTime is how far ahead of now an initiator may schedule an event.
	MinInitiatorLeadTime = 2 * time.Hour
	// MinPublishLeadTime is the gap required between publication and the event itself.
	MinPublishLeadTime = time.Hour
)
