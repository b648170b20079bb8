package rapid

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownType означает, что для имени типа RAPID нет ни встроенного варианта,
// ни зарегистрированной записи.
var ErrUnknownType = errors.New("unknown rapid data type")

func builtin(typeName string) Value {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case TypeBool:
		return new(Bool)
	case TypeNum:
		return new(Num)
	case TypeDnum:
		return new(Dnum)
	case TypeString:
		return new(String)
	case TypeRobJoint:
		return new(RobJoint)
	case TypeExtJoint:
		return new(ExtJoint)
	case TypeJointTarget:
		return new(JointTarget)
	case TypePos:
		return new(Pos)
	case TypeOrient:
		return new(Orient)
	case TypePose:
		return new(Pose)
	case TypeConfData:
		return new(ConfData)
	case TypeRobTarget:
		return new(RobTarget)
	case TypeToolData:
		return new(ToolData)
	case TypeWObjData:
		return new(WObjData)
	case TypeSpeedData:
		return new(SpeedData)
	case TypeLoadData:
		return new(LoadData)
	case TypeZoneData:
		return new(ZoneData)
	}
	return nil
}

// Registry сопоставляет имя типа RAPID с прототипом значения. Встроенные типы
// доступны всегда, пользовательские записи добавляются через Register.
// Реестр принадлежит клиенту: глобального состояния в пакете нет.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewRegistry создает реестр со встроенными типами.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Register добавляет схему пользовательской записи. Повторная регистрация
// заменяет прежнюю схему. Имена встроенных типов переопределять нельзя.
func (g *Registry) Register(schema *Record) error {
	if schema == nil || strings.TrimSpace(schema.Name) == "" {
		return errors.New("rapid: record schema must have a name")
	}
	if builtin(schema.Name) != nil {
		return fmt.Errorf("rapid: %s is a built-in type", schema.Name)
	}
	proto, err := schema.shape()
	if err != nil {
		return fmt.Errorf("rapid: register %s: %w", schema.Name, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records[strings.ToLower(schema.Name)] = proto
	return nil
}

// New возвращает новое нулевое значение для типа typeName.
func (g *Registry) New(typeName string) (Value, error) {
	if v := builtin(typeName); v != nil {
		return v, nil
	}
	if g != nil {
		g.mu.RLock()
		proto, ok := g.records[strings.ToLower(strings.TrimSpace(typeName))]
		g.mu.RUnlock()
		if ok {
			return proto.shape()
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
}

// Decode разбирает text как значение типа typeName.
func (g *Registry) Decode(text, typeName string) (Value, error) {
	v, err := g.New(typeName)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(text, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode разбирает text как значение встроенного типа typeName.
func Decode(text, typeName string) (Value, error) {
	var g *Registry
	return g.Decode(text, typeName)
}
