package log

const (
	KeyAppName       = "app"
	KeyTag           = "tag"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
	KeyConfig        = "config"
	KeyToken         = "token"
	KeyEmail         = "email"
	KeyUserID        = "userId"
	KeyGuestID       = "guestId"
	KeyOrderID       = "orderId"
	KeyProductID     = "productId"
	KeyQuantity      = "quantity"
	KeyCart          = "cart"
	KeyCartLines     = "cartLines"
	KeyCacheKey      = "cacheKey"
	KeyDbURL         = "dbUrl"
	KeyMailTo        = "mailTo"
	KeyMailSubject   = "mailSubject"
	KeyStartTime     = "startTime"
	KeyEndTime       = "endTime"
	KeyTimeTaken     = "timeTaken"
)
