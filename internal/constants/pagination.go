package constants

// Pagination Query Parameters
const (
	QueryParamPage  = "page"
	QueryParamLimit = "limit"
)

// Default Pagination Values (as strings for query parsing)
const (
	DefaultPage  = "1"
	DefaultLimit = "10"
)

// Pagination Limits
const (
	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)

// PaymentHistoryLimit caps GET /payments/history.
const PaymentHistoryLimit = 20

// UpcomingEventsLimit caps the organizer events shown on a public profile.
const UpcomingEventsLimit = 6
