package dto

// CreateUserRequest is the JSON body for POST /create_user/.
// Pointer fields let binding require presence while still accepting "".
type CreateUserRequest struct {
	Username *string `json:"username" binding:"required"`
	Password *string `json:"password" binding:"required"`
}

// StatusResponse carries an outcome string for expected alternate results.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned with 422 and 500 codes.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
