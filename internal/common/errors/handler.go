// internal/common/errors/handler.go
package errors

import "net/http"

// HTTPStatus maps an error to the status code the intake boundary should
// return. Validation errors are client faults; everything else is a
// server-side condition.
func HTTPStatus(err error) int {
	se := AsStandard(err)
	if se == nil {
		return http.StatusInternalServerError
	}

	switch se.Code {
	case ErrCodeInvalidRequest, ErrCodeInvalidCategory, ErrCodeInvalidRequester,
		ErrCodeImportParseFailed, ErrCodeImportNoValidRows:
		return http.StatusBadRequest
	case ErrCodeProviderQueryFailed, ErrCodeProviderUpsertFailed:
		return http.StatusServiceUnavailable
	case ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
