package dto

import "time"

type SendNotificationRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Message string `json:"message" binding:"required,max=2000"`
}

type SendNotificationResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type NotificationResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	OrganizerID string        `json:"organizerId"`
	EventID     string        `json:"eventId"`
	Message     string        `json:"message"`
	IsRead      bool          `json:"isRead"`
	Event       *EventSummary `json:"event,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}
