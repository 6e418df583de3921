package constants

// Application Information
const (
	AppName    = "eventhub"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix       = "eventhub:"
	CacheKeyCategoryList = CacheKeyPrefix + "categories:list"
)

// Domain event names published to the event bus.
const (
	EventUserRegistered      = "user.registered"
	EventRegistrationCreated = "registration.created"
	EventRegistrationDeleted = "registration.canceled"
	EventPaymentSucceeded    = "payment.succeeded"
	EventPaymentFailed       = "payment.failed"
	EventNotificationSent    = "notification.sent"
)
