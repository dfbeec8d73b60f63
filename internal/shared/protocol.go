package shared

// UnauthorizedMessage is the fixed body text for every rejected credential.
const UnauthorizedMessage = "unauthorized access"

// TokenCookieName is the cookie that carries the signed credential.
const TokenCookieName = "token"

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Ok bool `json:"ok"`
}

// InsertResult mirrors the acknowledgement a document store returns for insert-one.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// DeleteResult mirrors the acknowledgement a document store returns for delete-one.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
