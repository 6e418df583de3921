package model

import (
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
)

type User struct {
	Base
	Username     string     `gorm:"column:username;type:varchar(30);uniqueIndex;not null"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;type:varchar(20);not null;default:ATTENDEE;index"`
	GoogleID     *string    `gorm:"column:google_id;type:varchar(255);uniqueIndex"`
	FullName     string     `gorm:"column:full_name;type:varchar(255)"`
	Bio          string     `gorm:"column:bio;type:text"`
	AvatarURL    string     `gorm:"column:avatar_url;type:varchar(1024)"`
	Phone        string     `gorm:"column:phone;type:varchar(20)"`
	Location     string     `gorm:"column:location;type:varchar(255)"`
	Website      string     `gorm:"column:website;type:varchar(255)"`
	LastLogin    *time.Time `gorm:"column:last_login"`
}

func (User) TableName() string { return "users" }

func (u *User) IsOrganizer() bool { return u.Role == constants.RoleOrganizer }
