package dto

import "time"

type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required,min=3,max=255"`
	Description     string    `json:"description" binding:"required,min=10"`
	ImageURL        string    `json:"imageUrl" binding:"flexurl"`
	ThumbnailURL    string    `json:"thumbnailUrl" binding:"flexurl"`
	DateTime        time.Time `json:"dateTime" binding:"required,future"`
	Location        string    `json:"location" binding:"required,min=3,max=255"`
	MaxAttendees    int       `json:"maxAttendees" binding:"required,min=1,max=10000"`
	CategoryID      string    `json:"categoryId" binding:"required"`
	PaymentRequired bool      `json:"paymentRequired"`
	Status          string    `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELED"`
}

// UpdateEventRequest only touches the fields present in the body.
type UpdateEventRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Description     *string    `json:"description" binding:"omitempty,min=10"`
	ImageURL        *string    `json:"imageUrl" binding:"omitempty,flexurl"`
	ThumbnailURL    *string    `json:"thumbnailUrl" binding:"omitempty,flexurl"`
	DateTime        *time.Time `json:"dateTime"`
	Location        *string    `json:"location" binding:"omitempty,min=3,max=255"`
	MaxAttendees    *int       `json:"maxAttendees" binding:"omitempty,min=1,max=10000"`
	CategoryID      *string    `json:"categoryId" binding:"omitempty,min=1"`
	PaymentRequired *bool      `json:"paymentRequired"`
	Status          *string    `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELED"`
}

type EventListQuery struct {
	CategoryID  string `form:"categoryId"`
	Status      string `form:"status"`
	OrganizerID string `form:"organizerId"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type EventResponse struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	ImageURL          string       `json:"imageUrl,omitempty"`
	ThumbnailURL      string       `json:"thumbnailUrl,omitempty"`
	DateTime          time.Time    `json:"dateTime"`
	Location          string       `json:"location"`
	MaxAttendees      int          `json:"maxAttendees"`
	PaymentRequired   bool         `json:"paymentRequired"`
	Status            string       `json:"status"`
	OrganizerID       string       `json:"organizerId"`
	CategoryID        string       `json:"categoryId"`
	Category          *CategoryRef `json:"category,omitempty"`
	Organizer         *UserRef     `json:"organizer,omitempty"`
	RegistrationCount *int64       `json:"registrationCount,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// EventSummary is the compact event shape embedded in other resources.
type EventSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	DateTime     time.Time `json:"dateTime"`
	Location     string    `json:"location,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Pagination Pagination      `json:"pagination"`
}
