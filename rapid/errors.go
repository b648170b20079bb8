package rapid

import (
	"errors"
	"fmt"
)

// DecodeErrorKind классифицирует ошибку разбора текстового представления RAPID.
type DecodeErrorKind int

const (
	// ArityMismatch - число компонентов записи не совпадает с объявленной схемой.
	ArityMismatch DecodeErrorKind = iota + 1
	// BadScalar - скалярное значение (num, bool, string) не удалось разобрать.
	BadScalar
	// Malformed - нарушена структура текста: скобки или кавычки не сбалансированы.
	Malformed
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ArityMismatch:
		return "arity mismatch"
	case BadScalar:
		return "bad scalar"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// DecodeError возвращается, когда текст не соответствует ожидаемому типу RAPID.
type DecodeError struct {
	Kind DecodeErrorKind
	Type string // тип RAPID, который разбирался (например, "robtarget")
	Path string // путь к компоненту внутри записи (например, "robtarget.extax.eax_a")
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("rapid: decode %s", e.Type)
	if e.Path != "" && e.Path != e.Type {
		msg += " at " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Text != "" {
		msg += fmt.Sprintf(" (text %q)", e.Text)
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrIncompleteRecord означает, что у записи не заданы дочерние компоненты.
var ErrIncompleteRecord = errors.New("incomplete record")

// ErrTypeMismatch означает, что объявленный на контроллере тип символа
// не совпадает с типом переданного значения.
var ErrTypeMismatch = errors.New("rapid data type mismatch")

// EncodeError возвращается, когда значение нельзя представить в виде текста RAPID.
type EncodeError struct {
	Type string
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("rapid: encode %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("rapid: encode %s at %s: %v", e.Type, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// IsArityMismatch сообщает, является ли err ошибкой несовпадения числа компонентов.
func IsArityMismatch(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == ArityMismatch
}

// IsBadScalar сообщает, является ли err ошибкой разбора скалярного значения.
func IsBadScalar(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == BadScalar
}
