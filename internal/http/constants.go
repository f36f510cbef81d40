package http

const (
	HeaderKeyContentType   = "Content-Type"
	HeaderKeyAuthorization = "Authorization"
	HeaderKeyGuestCartID   = "X-Guest-Cart-Id"

	HeaderValueApplicationJSON = "application/json"
)
