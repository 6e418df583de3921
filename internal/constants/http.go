package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderForwardedFor  = "X-Forwarded-For"
)

// AuthScheme is the only accepted Authorization scheme.
const AuthScheme = "Bearer"

// Common HTTP Error Messages
const (
	MsgMissingToken       = "Missing or invalid token"
	MsgTokenExpired       = "Token expired"
	MsgInvalidToken       = "Invalid token"
	MsgForbidden          = "Forbidden"
	MsgRouteNotFound      = "Route not found"
	MsgInternalError      = "Internal server error"
	MsgValidationError    = "Validation error"
	MsgInvalidRequestBody = "Invalid request body"
	MsgTooManyRequests    = "Too many requests"
)

// HTTP Success Messages
const (
	MsgLoggedOut            = "Logged out successfully"
	MsgAllSessionsLoggedOut = "All sessions logged out"
	MsgEventDeleted         = "Event deleted successfully"
	MsgRegistrationCanceled = "Canceled"
	MsgNotificationRead     = "Notification marked as read"
	MsgFavoriteRemoved      = "Category removed from favorites"
	MsgCacheInvalidated     = "Cache invalidated"
	MsgPasswordChanged      = "Password changed successfully"
	MsgAccountDeleted       = "Your account has been permanently deleted"
)
