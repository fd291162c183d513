package serverutils

// APIResponse is the envelope used by history and auth endpoints.
type APIResponse[T any] struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    T          `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code, field, message string) APIResponse[any] {
	return APIResponse[any]{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    code,
			Field:   field,
			Message: message,
		},
	}
}
