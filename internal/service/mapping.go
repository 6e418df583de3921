package service

import (
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/model"
)

func toEventResponse(e *model.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		ImageURL:        e.ImageURL,
		ThumbnailURL:    e.ThumbnailURL,
		DateTime:        e.DateTime,
		Location:        e.Location,
		MaxAttendees:    e.MaxAttendees,
		PaymentRequired: e.PaymentRequired,
		Status:          e.Status,
		OrganizerID:     e.OrganizerID,
		CategoryID:      e.CategoryID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Category.ID != "" {
		resp.Category = &dto.CategoryRef{ID: e.Category.ID, Name: e.Category.Name}
	}
	if e.Organizer.ID != "" {
		resp.Organizer = &dto.UserRef{ID: e.Organizer.ID, Username: e.Organizer.Username, Email: e.Organizer.Email}
	}
	return resp
}

func toEventSummary(e *model.Event) *dto.EventSummary {
	if e == nil || e.ID == "" {
		return nil
	}
	return &dto.EventSummary{
		ID:           e.ID,
		Title:        e.Title,
		DateTime:     e.DateTime,
		Location:     e.Location,
		ImageURL:     e.ImageURL,
		ThumbnailURL: e.ThumbnailURL,
	}
}

func toRegistrationResponse(r *model.Registration) dto.RegistrationResponse {
	resp := dto.RegistrationResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		EventID:       r.EventID,
		PaymentStatus: r.PaymentStatus,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Event.ID != "" {
		event := toEventResponse(&r.Event)
		resp.Event = &event
	}
	return resp
}

func toTransactionResponse(t *model.PaymentTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		EventID:         t.EventID,
		Amount:          t.Amount,
		Status:          t.Status,
		Provider:        t.Provider,
		ProviderRef:     t.ProviderRef,
		TransactionDate: t.TransactionDate,
		Event:           toEventSummary(&t.Event),
	}
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		OrganizerID: n.OrganizerID,
		EventID:     n.EventID,
		Message:     n.Message,
		IsRead:      n.IsRead,
		Event:       toEventSummary(&n.Event),
		CreatedAt:   n.CreatedAt,
	}
}
