package dto

import "time"

type CreateRegistrationRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

type RegistrationResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	EventID       string         `json:"eventId"`
	PaymentStatus string         `json:"paymentStatus"`
	Event         *EventResponse `json:"event,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
