package dto

import "time"

type CreatePaymentRequest struct {
	EventID         string  `json:"eventId" binding:"required"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethodID string  `json:"paymentMethodId" binding:"required"`
}

type TestCard struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type PaymentConfigResponse struct {
	Provider  string     `json:"provider"`
	TestMode  bool       `json:"testMode"`
	Currency  string     `json:"currency"`
	TestCards []TestCard `json:"testCards"`
}

type TransactionResponse struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	EventID         string        `json:"eventId"`
	Amount          float64       `json:"amount"`
	Status          string        `json:"status"`
	Provider        string        `json:"provider"`
	ProviderRef     string        `json:"providerRef"`
	TransactionDate time.Time     `json:"transactionDate"`
	Event           *EventSummary `json:"event,omitempty"`
}

type PaymentIntentRef struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentResponse covers the three provider outcomes. Status is only set
// for declined payments, ClientSecret only when further action is required.
type PaymentResponse struct {
	Success        bool                  `json:"success"`
	RequiresAction bool                  `json:"requiresAction,omitempty"`
	Message        string                `json:"message"`
	Transaction    TransactionResponse   `json:"transaction"`
	Registration   *RegistrationResponse `json:"registration,omitempty"`
	PaymentIntent  *PaymentIntentRef     `json:"paymentIntent,omitempty"`
	ClientSecret   string                `json:"clientSecret,omitempty"`
	Status         string                `json:"status,omitempty"`
}
