package dto

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BasicResponse carries a human-readable confirmation message.
type BasicResponse struct {
	Message string `json:"message"`
}
