package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	UnauthorizedErrorCode   = http.StatusUnauthorized
	BadRequestCode          = http.StatusBadRequest
	ForbiddenErrorCode      = http.StatusForbidden
	NotFoundErrorCode       = http.StatusNotFound
	InternalServerErrorCode = http.StatusInternalServerError
)

var (
	// ErrConnection - контроллер недоступен по сети.
	ErrConnection = errors.New("controller unreachable")
	// ErrAuth - контроллер отклонил учетные данные (в том числе после повторной аутентификации).
	ErrAuth = errors.New("authentication rejected")
	// ErrNotFound - запрошенный ресурс (механический блок, символ, задача) не существует.
	ErrNotFound = errors.New("resource not found")
	// ErrWriteRejected - контроллер отказал в записи: нет привилегии, неверный тип или символ.
	ErrWriteRejected = errors.New("write rejected by controller")
	// ErrProtocol - ответ контроллера не соответствует ожидаемой структуре.
	ErrProtocol = errors.New("unexpected controller response")
	// ErrPrivilegeDenied - контроллер отказал в привилегии RMMP или отозвал ее.
	ErrPrivilegeDenied = errors.New("rmmp privilege denied")
)

// StatusError описывает ответ контроллера с неожиданным HTTP статусом.
type StatusError struct {
	Code   int    `json:"code"`   // HTTP статус код
	Method string `json:"method"` // метод запроса
	URI    string `json:"uri"`    // путь запроса
	Body   string `json:"-"`      // тело ответа, может быть пустым
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URI, e.Code, http.StatusText(e.Code))
	if body := strings.TrimSpace(e.Body); body != "" {
		if len(body) > 256 {
			body = body[:256] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// Is сопоставляет статус с общими ошибками: 401 - ErrAuth, 404 - ErrNotFound.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Code == UnauthorizedErrorCode
	case ErrNotFound:
		return e.Code == NotFoundErrorCode
	}
	return false
}

// NewStatusError создает новый экземпляр StatusError.
func NewStatusError(code int, method, uri, body string) *StatusError {
	return &StatusError{
		Code:   code,
		Method: method,
		URI:    uri,
		Body:   body,
	}
}

// StatusCode возвращает HTTP статус из цепочки ошибок или 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
