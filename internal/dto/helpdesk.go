package dto

type SubmitRequest struct {
	Request string `json:"request" validate:"required"`
	UserID  string `json:"user_id,omitempty"`
}

type ClassifyResponse struct {
	Request        string `json:"request"`
	Classification any    `json:"classification"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
