package types

// Response is the error envelope written by api.ErrorResponse.
type Response struct {
	Success   bool   `json:"success" example:"false"`
	Error     string `json:"error,omitempty" example:"name is required"`
	RequestID string `json:"request_id,omitempty" example:"host/abc123-000001"`
}
