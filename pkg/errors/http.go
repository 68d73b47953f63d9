package errors

import "net/http"

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidDrawing:  http.StatusBadRequest,
	ErrCodeInvalidStyle:    http.StatusBadRequest,
	ErrCodeInvalidCommand:  http.StatusBadRequest,
	ErrCodeInvalidPath:     http.StatusBadRequest,
	ErrCodeInvalidConfig:   http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeDrawingNotFound: http.StatusNotFound,
	ErrCodeFileNotFound:    http.StatusNotFound,
	ErrCodePlotterBusy:     http.StatusConflict,
	ErrCodePlotterFailed:   http.StatusBadGateway,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeUnsupported:     http.StatusNotImplemented,
}

// HTTPStatus is the status the plotter server answers err with. Uncoded
// errors and unlisted codes are 500s.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromStatus rebuilds a coded error from a plotter server response. Unknown
// 5xx statuses become NETWORK_ERROR so the client may retry them.
func FromStatus(status int, message string) *Error {
	switch status {
	case http.StatusBadRequest:
		return New(ErrCodeInvalidInput, "%s", message)
	case http.StatusNotFound:
		return New(ErrCodeNotFound, "%s", message)
	case http.StatusConflict:
		return New(ErrCodePlotterBusy, "%s", message)
	case http.StatusBadGateway:
		return New(ErrCodePlotterFailed, "%s", message)
	case http.StatusGatewayTimeout:
		return New(ErrCodeTimeout, "%s", message)
	}
	if status >= 500 {
		return New(ErrCodeNetwork, "server error %d: %s", status, message)
	}
	return New(ErrCodeInternal, "unexpected status %d: %s", status, message)
}
