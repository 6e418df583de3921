package model

import "time"

type Event struct {
	Base
	Title           string    `gorm:"column:title;type:varchar(255);not null"`
	Description     string    `gorm:"column:description;type:text;not null"`
	ImageURL        string    `gorm:"column:image_url;type:varchar(1024)"`
	ThumbnailURL    string    `gorm:"column:thumbnail_url;type:varchar(1024)"`
	DateTime        time.Time `gorm:"column:date_time;not null;index"`
	Location        string    `gorm:"column:location;type:varchar(255);not null"`
	MaxAttendees    int       `gorm:"column:max_attendees;not null"`
	PaymentRequired bool      `gorm:"column:payment_required;not null;default:false"`
	Status          string    `gorm:"column:status;type:varchar(20);not null;default:SCHEDULED;index"`
	OrganizerID     string    `gorm:"column:organizer_id;type:varchar(36);not null;index"`
	Organizer       User      `gorm:"foreignKey:OrganizerID"`
	CategoryID      string    `gorm:"column:category_id;type:varchar(36);not null;index"`
	Category        Category  `gorm:"foreignKey:CategoryID"`
}

func (Event) TableName() string { return "events" }
