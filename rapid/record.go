package rapid

import (
	"errors"
	"fmt"
	"reflect"
)

// Component - именованный компонент пользовательской записи.
type Component struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Record - пользовательская запись RAPID (RECORD ... ENDRECORD), заданная схемой:
// именем типа и упорядоченным списком компонентов. Значения компонентов задают
// их типы, поэтому перед разбором схема должна быть полностью заполнена.
type Record struct {
	Name       string      `json:"name"`
	Components []Component `json:"components"`
}

// NewRecord создает запись с заданными компонентами.
func NewRecord(name string, components ...Component) *Record {
	return &Record{Name: name, Components: components}
}

// Add добавляет компонент в конец записи и возвращает саму запись.
func (r *Record) Add(name string, v Value) *Record {
	r.Components = append(r.Components, Component{Name: name, Value: v})
	return r
}

// Get возвращает значение компонента по имени.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	for _, c := range r.Components {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

func (r *Record) Type() string {
	if r == nil {
		return ""
	}
	return r.Name
}

func (r *Record) MarshalRAPID() (string, error)    { return r.encode("") }
func (r *Record) UnmarshalRAPID(text string) error { return r.decode("", text) }

func (r *Record) encode(path string) (string, error) {
	if r == nil {
		return "", incomplete("record", path)
	}
	w := newWriter(r.Name, path)
	for _, c := range r.Components {
		if c.Value == nil {
			return "", incomplete(r.Name, childPath(path, c.Name))
		}
		w.record(c.Name, c.Value)
	}
	return w.done()
}

func (r *Record) decode(path, text string) error {
	rd := newReader(r.Name, path, text, len(r.Components))
	values := make([]Value, len(r.Components))
	for i, c := range r.Components {
		if rd.err != nil {
			break
		}
		fresh, err := blank(c.Value)
		if err != nil {
			return &DecodeError{Kind: Malformed, Type: r.Name, Path: childPath(path, c.Name), Text: text, Err: err}
		}
		rd.record(c.Name, fresh)
		values[i] = fresh
	}
	if rd.err != nil {
		return rd.err
	}
	for i := range r.Components {
		r.Components[i].Value = values[i]
	}
	return nil
}

// shape возвращает копию схемы записи с пустыми значениями компонентов.
func (r *Record) shape() (*Record, error) {
	out := &Record{Name: r.Name, Components: make([]Component, len(r.Components))}
	for i, c := range r.Components {
		v, err := blank(c.Value)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		out.Components[i] = Component{Name: c.Name, Value: v}
	}
	return out, nil
}

var errNoPrototype = errors.New("component has no prototype value")

// blank создает новое нулевое значение того же типа, что и proto.
func blank(proto Value) (Value, error) {
	if proto == nil {
		return nil, errNoPrototype
	}
	if rec, ok := proto.(*Record); ok {
		if rec == nil {
			return nil, errNoPrototype
		}
		return rec.shape()
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("prototype %T must be a pointer", proto)
	}
	v, ok := reflect.New(t.Elem()).Interface().(Value)
	if !ok {
		return nil, fmt.Errorf("prototype %T is not a rapid value", proto)
	}
	return v, nil
}
