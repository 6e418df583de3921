package constants

// Field Length Limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
	MinTitleLength    = 3
	MaxTitleLength    = 255
	MinDescLength     = 10
	MaxAttendees      = 10000
	MaxBioLength      = 1000
	MaxPhoneLength    = 20
)

// BcryptCost is the work factor for password hashes.
const BcryptCost = 10

// Validation Patterns
const (
	PhonePattern = `^[\d\s\-\+\(\)]+$`
)
