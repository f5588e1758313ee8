package global

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(message string, errors []ValidationError) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// FieldErrors converts a field -> message map, the shape upstream services
// report form failures in, to validation errors.
func FieldErrors(fields map[string]string) []ValidationError {
	if len(fields) == 0 {
		return nil
	}
	errs := make([]ValidationError, 0, len(fields))
	for field, message := range fields {
		errs = append(errs, ValidationError{Field: field, Message: message})
	}
	return errs
}
