package http

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status  int    `json:"status" example:"200"`
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data,omitempty"`
}

// APIResponse400Err is the envelope of a rejected request.
type APIResponse400Err struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Data    []ValidationError `json:"data,omitempty"`
}

type APIResponse500Err struct {
	Status  int    `json:"status" example:"500"`
	Message string `json:"message" example:"Internal Server Error"`
	Data    string `json:"data,omitempty"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string         `json:"code,omitempty" example:"ERR_GTE"`
	Field   string         `json:"field,omitempty" example:"monthly_volume"`
	Message string         `json:"message,omitempty" example:"monthly_volume must be greater than or equal to 100"`
	Params  map[string]any `json:"params,omitempty"`
}
