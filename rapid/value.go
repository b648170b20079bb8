// Package rapid реализует преобразование значений RAPID (языка программирования
// контроллеров ABB) между типизированными структурами Go и текстовым представлением,
// которое используют Robot Web Services.
package rapid

import (
	"reflect"
	"strings"
)

// Имена типов данных RAPID в том виде, в каком их возвращает контроллер (dattyp).
const (
	TypeBool        = "bool"
	TypeNum         = "num"
	TypeDnum        = "dnum"
	TypeString      = "string"
	TypeRobJoint    = "robjoint"
	TypeExtJoint    = "extjoint"
	TypeJointTarget = "jointtarget"
	TypePos         = "pos"
	TypeOrient      = "orient"
	TypePose        = "pose"
	TypeConfData    = "confdata"
	TypeRobTarget   = "robtarget"
	TypeToolData    = "tooldata"
	TypeWObjData    = "wobjdata"
	TypeSpeedData   = "speeddata"
	TypeLoadData    = "loaddata"
	TypeZoneData    = "zonedata"
)

// Value - значение символа RAPID. Реализации с методом UnmarshalRAPID
// либо полностью заполняют значение, либо оставляют его без изменений.
type Value interface {
	// Type возвращает имя типа данных RAPID.
	Type() string
	// MarshalRAPID строит текстовое представление значения.
	MarshalRAPID() (string, error)
	// UnmarshalRAPID разбирает текстовое представление значения.
	UnmarshalRAPID(text string) error
}

// Marshal возвращает текстовое представление v.
func Marshal(v Value) (string, error) {
	return encodeValue(v, "")
}

// Unmarshal разбирает text в v. Тип v задает ожидаемый вариант.
func Unmarshal(text string, v Value) error {
	if v == nil {
		return &DecodeError{Kind: Malformed, Type: "<nil>", Text: text, Err: errNilTarget}
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return &DecodeError{Kind: Malformed, Type: v.Type(), Text: text, Err: errNilTarget}
	}
	return decodeValue(v, "", text)
}

// SameType сравнивает имена типов RAPID без учета регистра.
func SameType(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Bool - RAPID bool.
type Bool bool

func (v *Bool) Type() string { return TypeBool }

func (v *Bool) MarshalRAPID() (string, error) { return v.encode("") }

func (v *Bool) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Bool) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeBool, path)
	}
	return formatBool(bool(*v)), nil
}

func (v *Bool) decode(path, text string) error {
	b, err := parseBool(TypeBool, path, text)
	if err != nil {
		return err
	}
	*v = Bool(b)
	return nil
}

// Num - RAPID num.
type Num float64

func (v *Num) Type() string { return TypeNum }

func (v *Num) MarshalRAPID() (string, error) { return v.encode("") }

func (v *Num) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Num) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeNum, path)
	}
	s, err := formatNum(float64(*v))
	if err != nil {
		return "", &EncodeError{Type: TypeNum, Path: path, Err: err}
	}
	return s, nil
}

func (v *Num) decode(path, text string) error {
	f, err := parseNum(TypeNum, path, text)
	if err != nil {
		return err
	}
	*v = Num(f)
	return nil
}

// Dnum - RAPID dnum (число двойной точности).
type Dnum float64

func (v *Dnum) Type() string { return TypeDnum }

func (v *Dnum) MarshalRAPID() (string, error) { return v.encode("") }

func (v *Dnum) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Dnum) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeDnum, path)
	}
	s, err := formatNum(float64(*v))
	if err != nil {
		return "", &EncodeError{Type: TypeDnum, Path: path, Err: err}
	}
	return s, nil
}

func (v *Dnum) decode(path, text string) error {
	f, err := parseNum(TypeDnum, path, text)
	if err != nil {
		return err
	}
	*v = Dnum(f)
	return nil
}

// String - RAPID string.
type String string

func (v *String) Type() string { return TypeString }

func (v *String) MarshalRAPID() (string, error) { return v.encode("") }

func (v *String) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *String) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeString, path)
	}
	return formatString(string(*v)), nil
}

func (v *String) decode(path, text string) error {
	s, err := parseString(TypeString, path, text)
	if err != nil {
		return err
	}
	*v = String(s)
	return nil
}
