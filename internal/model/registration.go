package model

type Registration struct {
	Base
	UserID        string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_registration_user_event"`
	EventID       string `gorm:"column:event_id;type:varchar(36);not null;uniqueIndex:idx_registration_user_event;index"`
	PaymentStatus string `gorm:"column:payment_status;type:varchar(20);not null;default:PENDING"`
	User          User   `gorm:"foreignKey:UserID"`
	Event         Event  `gorm:"foreignKey:EventID"`
}

func (Registration) TableName() string { return "registrations" }
