package dto

// DashboardResponse is global for admins and scoped to the caller's events
// for organizers, in which case UsersCount is omitted.
type DashboardResponse struct {
	Role               string `json:"role"`
	EventsCount        int64  `json:"eventsCount"`
	UsersCount         *int64 `json:"usersCount,omitempty"`
	RegistrationsCount int64  `json:"registrationsCount"`
}
