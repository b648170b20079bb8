package rapid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errNotBracketed = errors.New("record text must be enclosed in [ ]")
	errUnbalanced   = errors.New("unbalanced brackets")
	errOpenQuote    = errors.New("unterminated string literal")
	errNonFinite    = errors.New("value is not finite")
	errNilTarget    = errors.New("nil decode target")
)

// splitComponents разбивает текст вида "[a,[b,c],"x,y"]" на компоненты верхнего уровня.
// Вложенные скобки и строковые литералы не разрезаются.
func splitComponents(text string) ([]string, error) {
	s := strings.TrimSpace(text)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, errNotBracketed
	}
	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return []string{}, nil
	}

	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if inQuote {
			switch c {
			case '\\':
				i++
			case '"':
				if i+1 < len(inner) && inner[i+1] == '"' {
					i++
					continue
				}
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, errUnbalanced
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if inQuote {
		return nil, errOpenQuote
	}
	if depth != 0 {
		return nil, errUnbalanced
	}
	return append(parts, strings.TrimSpace(inner[start:])), nil
}

func formatNum(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", errNonFinite
	}
	// Контроллер отвергает экспоненциальную запись с положительным порядком.
	if math.Abs(v) > 1 {
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

func parseNum(typ, path, text string) (float64, error) {
	s := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errNonFinite
	}
	if err != nil {
		return 0, &DecodeError{Kind: BadScalar, Type: typ, Path: path, Text: text, Err: err}
	}
	return v, nil
}

func formatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func parseBool(typ, path, text string) (bool, error) {
	s := strings.TrimSpace(text)
	switch {
	case strings.EqualFold(s, "TRUE"):
		return true, nil
	case strings.EqualFold(s, "FALSE"):
		return false, nil
	}
	return false, &DecodeError{Kind: BadScalar, Type: typ, Path: path, Text: text,
		Err: errors.New("expected TRUE or FALSE")}
}

func formatString(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '"':
			b.WriteString(`""`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(v[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func parseString(typ, path, text string) (string, error) {
	s := strings.TrimSpace(text)
	bad := func(msg string) error {
		return &DecodeError{Kind: BadScalar, Type: typ, Path: path, Text: text, Err: errors.New(msg)}
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", bad("string literal must be quoted")
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '"':
			if i+1 >= len(inner) || inner[i+1] != '"' {
				return "", bad("unescaped quote inside string literal")
			}
			i++
		case c == '\\' && i+1 < len(inner) && inner[i+1] == '\\':
			i++
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// codec реализуют все встроенные типы: путь нужен для понятных сообщений об ошибках
// во вложенных записях.
type codec interface {
	encode(path string) (string, error)
	decode(path, text string) error
}

func encodeValue(v Value, path string) (string, error) {
	if v == nil {
		return "", &EncodeError{Type: "<nil>", Path: path, Err: ErrIncompleteRecord}
	}
	if c, ok := v.(codec); ok {
		return c.encode(path)
	}
	return v.MarshalRAPID()
}

func decodeValue(v Value, path, text string) error {
	if c, ok := v.(codec); ok {
		return c.decode(path, text)
	}
	return v.UnmarshalRAPID(text)
}

func childPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// reader последовательно извлекает компоненты записи. Первая ошибка запоминается,
// последующие вызовы ничего не делают.
type reader struct {
	typ   string
	path  string
	parts []string
	i     int
	err   error
}

func newReader(typ, path, text string, want int) *reader {
	r := &reader{typ: typ, path: path}
	parts, err := splitComponents(text)
	if err != nil {
		r.err = &DecodeError{Kind: Malformed, Type: typ, Path: path, Text: text, Err: err}
		return r
	}
	if len(parts) != want {
		r.err = &DecodeError{Kind: ArityMismatch, Type: typ, Path: path, Text: text,
			Err: fmt.Errorf("got %d components, want %d", len(parts), want)}
		return r
	}
	r.parts = parts
	return r
}

func (r *reader) next() string {
	s := r.parts[r.i]
	r.i++
	return s
}

func (r *reader) num(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := parseNum(r.typ, childPath(r.path, name), r.next())
	r.err = err
	return v
}

func (r *reader) bool(name string) bool {
	if r.err != nil {
		return false
	}
	v, err := parseBool(r.typ, childPath(r.path, name), r.next())
	r.err = err
	return v
}

func (r *reader) str(name string) string {
	if r.err != nil {
		return ""
	}
	v, err := parseString(r.typ, childPath(r.path, name), r.next())
	r.err = err
	return v
}

func (r *reader) record(name string, v Value) {
	if r.err != nil {
		return
	}
	r.err = decodeValue(v, childPath(r.path, name), r.next())
}

// writer собирает текст записи "[a,b,...]".
type writer struct {
	b    strings.Builder
	typ  string
	path string
	n    int
	err  error
}

func newWriter(typ, path string) *writer {
	w := &writer{typ: typ, path: path}
	w.b.WriteByte('[')
	return w
}

func (w *writer) raw(s string) {
	if w.n > 0 {
		w.b.WriteByte(',')
	}
	w.b.WriteString(s)
	w.n++
}

func (w *writer) num(name string, v float64) {
	if w.err != nil {
		return
	}
	s, err := formatNum(v)
	if err != nil {
		w.err = &EncodeError{Type: w.typ, Path: childPath(w.path, name), Err: err}
		return
	}
	w.raw(s)
}

func (w *writer) bool(v bool) {
	if w.err == nil {
		w.raw(formatBool(v))
	}
}

func (w *writer) str(v string) {
	if w.err == nil {
		w.raw(formatString(v))
	}
}

func (w *writer) record(name string, v Value) {
	if w.err != nil {
		return
	}
	s, err := encodeValue(v, childPath(w.path, name))
	if err != nil {
		w.err = err
		return
	}
	w.raw(s)
}

func (w *writer) done() (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.b.WriteByte(']')
	return w.b.String(), nil
}

func incomplete(typ, path string) error {
	return &EncodeError{Type: typ, Path: path, Err: ErrIncompleteRecord}
}
