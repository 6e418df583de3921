package dto

import "time"

type ProfileCounts struct {
	OrganizedEvents int64 `json:"organizedEvents"`
	Registrations   int64 `json:"registrations,omitempty"`
	Unread          int64 `json:"unreadNotifications,omitempty"`
}

// ProfileResponse serves both the private and the public profile. Email and
// Phone are left empty on the public variant.
type ProfileResponse struct {
	ID             string         `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email,omitempty"`
	Role           string         `json:"role"`
	FullName       string         `json:"fullName"`
	Bio            string         `json:"bio"`
	AvatarURL      string         `json:"avatarUrl"`
	Phone          string         `json:"phone,omitempty"`
	Location       string         `json:"location"`
	Website        string         `json:"website"`
	LastLogin      *time.Time     `json:"lastLogin,omitempty"`
	Counts         *ProfileCounts `json:"counts,omitempty"`
	UpcomingEvents []EventSummary `json:"upcomingEvents,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

// UpdateProfileRequest fields are optional; an empty string clears the field
// except for Username, which is left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,max=255"`
	Bio      *string `json:"bio" binding:"omitempty,max=1000"`
	Phone    *string `json:"phone" binding:"omitempty,max=20,phone"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	Website  *string `json:"website" binding:"omitempty,max=255,url"`
	Username *string `json:"username" binding:"omitempty,alphanum,min=3,max=30"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}
