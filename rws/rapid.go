package rws

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/rapid"
)

// Режимы остановки выполнения RAPID.
const (
	StopModeCycle = "cycle"
	StopModeInstr = "instr"
	StopModeStop  = "stop"
	StopModeQStop = "qstop"

	UseTSPNormal = "normal"
	UseTSPAllTsk = "alltsk"
)

func taskExecutionState(code string) string {
	switch code {
	case "read":
		return "ready"
	case "stop":
		return "stopped"
	case "star":
		return "started"
	case "unin":
		return "uninitialized"
	}
	return "unknown"
}

// RAPIDTasks возвращает список задач RAPID.
func (s *Session) RAPIDTasks(ctx context.Context) ([]models.RAPIDTaskInfo, error) {
	body, err := s.get(ctx, resourceTasks)
	if err != nil {
		return nil, fmt.Errorf("read rapid tasks: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	nodes := byClass(doc, "rap-task-li")
	tasks := make([]models.RAPIDTaskInfo, 0, len(nodes))
	for _, n := range nodes {
		tasks = append(tasks, models.RAPIDTaskInfo{
			Name:           findText(n, "name"),
			IsMotionTask:   findText(n, "motiontask") == valueTrue,
			IsActive:       findText(n, "active") == valueOn,
			ExecutionState: taskExecutionState(findText(n, "excstate")),
		})
	}
	return tasks, nil
}

// RAPIDModulesInfo возвращает модули задачи RAPID.
func (s *Session) RAPIDModulesInfo(ctx context.Context, task string) ([]models.RAPIDModuleInfo, error) {
	body, err := s.get(ctx, s.dialect.Paths.Modules(task))
	if err != nil {
		return nil, fmt.Errorf("read modules of task %s: %w", task, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	nodes := byClass(doc, "rap-module-info-li")
	modules := make([]models.RAPIDModuleInfo, 0, len(nodes))
	for _, n := range nodes {
		modules = append(modules, models.RAPIDModuleInfo{
			Name: findText(n, "name"),
			Type: findText(n, "type"),
		})
	}
	return modules, nil
}

// RAPIDExecution возвращает состояние выполнения программ RAPID.
func (s *Session) RAPIDExecution(ctx context.Context) (*models.RAPIDExecution, error) {
	body, err := s.get(ctx, resourceExecution)
	if err != nil {
		return nil, fmt.Errorf("read rapid execution: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	state := findText(doc, "ctrlexecstate")
	if state == "" {
		return nil, fmt.Errorf("%w: %s: no ctrlexecstate", apperrors.ErrProtocol, resourceExecution)
	}
	return &models.RAPIDExecution{State: state, Cycle: findText(doc, "cycle")}, nil
}

// IsRAPIDRunning сообщает, выполняется ли программа RAPID.
func (s *Session) IsRAPIDRunning(ctx context.Context) (bool, error) {
	exec, err := s.RAPIDExecution(ctx)
	if err != nil {
		return false, err
	}
	return exec.State == valueRunning, nil
}

// StartRAPIDExecution запускает выполнение RAPID в непрерывном цикле.
func (s *Session) StartRAPIDExecution(ctx context.Context) error {
	form := url.Values{
		"regain":       {"continue"},
		"execmode":     {"continue"},
		"cycle":        {"forever"},
		"condition":    {"none"},
		"stopatbp":     {"disabled"},
		"alltaskbytsp": {"false"},
	}
	if _, err := s.post(ctx, s.dialect.Paths.ExecutionStart(), form); err != nil {
		return s.writeError("rapid execution start", err)
	}
	return nil
}

// StopRAPIDExecution останавливает выполнение RAPID.
func (s *Session) StopRAPIDExecution(ctx context.Context, stopMode, useTSP string) error {
	if stopMode == "" {
		stopMode = StopModeStop
	}
	if useTSP == "" {
		useTSP = UseTSPNormal
	}
	form := url.Values{}
	for k, v := range s.dialect.Paths.StopForm(stopMode, useTSP) {
		form.Set(k, v)
	}
	if _, err := s.post(ctx, s.dialect.Paths.ExecutionStop(), form); err != nil {
		return s.writeError("rapid execution stop", err)
	}
	return nil
}

// ResetRAPIDProgramPointer переводит указатель программы на main.
func (s *Session) ResetRAPIDProgramPointer(ctx context.Context) error {
	if _, err := s.post(ctx, s.dialect.Paths.ExecutionResetPP(), nil); err != nil {
		return s.writeError("program pointer reset", err)
	}
	return nil
}

// RAPIDSymbolProperties возвращает свойства символа RAPID, в том числе тип данных.
func (s *Session) RAPIDSymbolProperties(ctx context.Context, sym Symbol) (*models.RAPIDSymbolProperties, error) {
	uri := s.dialect.Paths.SymbolProperties(sym.Task, sym.Module, sym.Name)
	body, err := s.get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("read properties of %s: %w", sym, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	props := &models.RAPIDSymbolProperties{
		DataType:   findText(doc, "dattyp"),
		SymbolType: findText(doc, "symtyp"),
		Dimensions: findText(doc, "dim"),
	}
	if props.DataType == "" {
		return nil, fmt.Errorf("%w: %s: no dattyp", apperrors.ErrProtocol, sym)
	}
	return props, nil
}

// RAPIDSymbolData возвращает текстовое значение символа RAPID.
func (s *Session) RAPIDSymbolData(ctx context.Context, sym Symbol) (string, error) {
	uri := s.dialect.Paths.SymbolData(sym.Task, sym.Module, sym.Name)
	body, err := s.get(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", sym, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return "", err
	}
	value := findText(doc, "value")
	if value == "" {
		return "", fmt.Errorf("%w: %s: empty value", apperrors.ErrProtocol, sym)
	}
	return value, nil
}

// RAPIDSymbolValue читает символ в v. Сначала проверяется, что объявленный
// на контроллере тип совпадает с v.Type(). При любой ошибке v не изменяется.
func (s *Session) RAPIDSymbolValue(ctx context.Context, sym Symbol, v rapid.Value) error {
	if v == nil {
		return fmt.Errorf("read %s: nil value", sym)
	}
	props, err := s.RAPIDSymbolProperties(ctx, sym)
	if err != nil {
		return err
	}
	if !rapid.SameType(props.DataType, v.Type()) {
		return fmt.Errorf("%w: %s is %s, not %s", rapid.ErrTypeMismatch, sym, props.DataType, v.Type())
	}

	text, err := s.RAPIDSymbolData(ctx, sym)
	if err != nil {
		return err
	}
	if err := rapid.Unmarshal(text, v); err != nil {
		return fmt.Errorf("decode %s: %w", sym, err)
	}
	return nil
}

// RAPIDSymbol читает символ, определяя вариант значения по объявленному типу.
// Пользовательские записи должны быть зарегистрированы в Registry сессии.
func (s *Session) RAPIDSymbol(ctx context.Context, sym Symbol) (rapid.Value, error) {
	props, err := s.RAPIDSymbolProperties(ctx, sym)
	if err != nil {
		return nil, err
	}
	text, err := s.RAPIDSymbolData(ctx, sym)
	if err != nil {
		return nil, err
	}
	v, err := s.registry.Decode(text, props.DataType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sym, err)
	}
	return v, nil
}

// SetRAPIDSymbolData записывает текстовое значение символа. Отказ контроллера
// (нет привилегии, неверный тип, символ не найден) возвращается как ErrWriteRejected.
// Неудачная запись не повторяется.
func (s *Session) SetRAPIDSymbolData(ctx context.Context, sym Symbol, text string) error {
	uri := s.dialect.Paths.SetSymbolData(sym.Task, sym.Module, sym.Name)
	_, err := s.post(ctx, uri, url.Values{"value": {text}})
	if err == nil {
		s.logger.WithField("symbol", sym.String()).Debug("Символ RAPID записан")
		return nil
	}

	return s.writeError("symbol "+sym.String(), err)
}

// SetRAPIDSymbolValue кодирует v и записывает его в символ. Незаполненная запись
// приводит к rapid.EncodeError до отправки запроса.
func (s *Session) SetRAPIDSymbolValue(ctx context.Context, sym Symbol, v rapid.Value) error {
	text, err := rapid.Marshal(v)
	if err != nil {
		return err
	}
	return s.SetRAPIDSymbolData(ctx, sym, text)
}
