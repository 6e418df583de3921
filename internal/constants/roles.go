package constants

// User roles
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleAttendee  = "ATTENDEE"
)

// Event statuses
const (
	EventStatusScheduled = "SCHEDULED"
	EventStatusCompleted = "COMPLETED"
	EventStatusCanceled  = "CANCELED"
)

// Registration payment statuses
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Payment transaction statuses
const (
	TransactionSuccess = "SUCCESS"
	TransactionFailed  = "FAILED"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOrganizer, RoleAttendee:
		return true
	}
	return false
}
