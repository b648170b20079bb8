package rws

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/rapid"
	"golang.org/x/net/html"
)

// Coordinate - система координат для чтения robtarget.
type Coordinate string

const (
	CoordinateActive Coordinate = "" // активная система, параметр не передается
	CoordinateBase   Coordinate = "Base"
	CoordinateWorld  Coordinate = "World"
	CoordinateTool   Coordinate = "Tool"
	CoordinateWobj   Coordinate = "Wobj"
)

func (s *Session) readUnit(ctx context.Context, unit, suffix string) (*html.Node, error) {
	if strings.TrimSpace(unit) == "" {
		return nil, fmt.Errorf("%w: mechanical unit name is empty", apperrors.ErrNotFound)
	}
	body, err := s.get(ctx, mechUnit(unit)+suffix)
	if err != nil {
		return nil, fmt.Errorf("read mechanical unit %s: %w", unit, err)
	}
	return parseDoc(body)
}

// inconsistent различает два случая: ответ без единого ожидаемого элемента означает,
// что блока нет, частично заполненный ответ - ошибку протокола.
func inconsistent(doc *html.Node, unit, what string, classes ...string) error {
	for _, c := range classes {
		if len(byClass(doc, c)) > 0 {
			return fmt.Errorf("%w: mechanical unit %s: inconsistent %s", apperrors.ErrProtocol, unit, what)
		}
	}
	return fmt.Errorf("%w: mechanical unit %s: no %s", apperrors.ErrNotFound, unit, what)
}

// MechanicalUnitStaticInfo возвращает статическую информацию о механическом блоке.
func (s *Session) MechanicalUnitStaticInfo(ctx context.Context, unit string) (*models.StaticInfo, error) {
	doc, err := s.readUnit(ctx, unit, "?resource=static")
	if err != nil {
		return nil, err
	}

	info := &models.StaticInfo{
		TaskName:          findText(doc, "task-name"),
		IsIntegratedUnit:  findText(doc, "is-integrated-unit"),
		HasIntegratedUnit: findText(doc, "has-integrated-unit"),
	}

	switch findText(doc, "type") {
	case "None":
		info.Type = "none"
	case "TCPRobot":
		info.Type = "tcp_robot"
	case "Robot":
		info.Type = "robot"
	case "Single":
		info.Type = "single"
	}

	axes, axesErr := strconv.Atoi(findText(doc, "axes"))
	total, totalErr := strconv.Atoi(findText(doc, "axes-total"))

	// is-integrated-unit и has-integrated-unit пусты у блоков без интеграции
	if info.TaskName == "" || info.Type == "" || axesErr != nil || totalErr != nil {
		return nil, inconsistent(doc, unit, "static info", "task-name", "type", "axes")
	}
	info.Axes = axes
	info.AxesTotal = total
	return info, nil
}

// MechanicalUnitDynamicInfo возвращает текущее состояние механического блока.
func (s *Session) MechanicalUnitDynamicInfo(ctx context.Context, unit string) (*models.DynamicInfo, error) {
	doc, err := s.readUnit(ctx, unit, "?resource=dynamic")
	if err != nil {
		return nil, err
	}

	info := &models.DynamicInfo{
		ToolName:         findText(doc, "tool-name"),
		WobjName:         findText(doc, "wobj-name"),
		PayloadName:      findText(doc, "payload-name"),
		TotalPayloadName: findText(doc, "total-payload-name"),
		Status:           findText(doc, "status"),
		JogMode:          findText(doc, "jog-mode"),
		CoordSystem:      "world",
	}

	switch findText(doc, "mode") {
	case valueActivated:
		info.Mode = "activated"
	case "Deactivated":
		info.Mode = "deactivated"
	}

	switch Coordinate(findText(doc, "coord-system")) {
	case CoordinateBase:
		info.CoordSystem = "base"
	case CoordinateTool:
		info.CoordSystem = "tool"
	case CoordinateWobj:
		info.CoordSystem = "wobj"
	}

	if info.ToolName == "" || info.WobjName == "" || info.PayloadName == "" ||
		info.TotalPayloadName == "" || info.Status == "" || info.JogMode == "" || info.Mode == "" {
		return nil, inconsistent(doc, unit, "dynamic info", "tool-name", "mode", "status")
	}
	return info, nil
}

// tuple собирает текст записи RAPID из значений элементов с указанными классами.
func tuple(doc *html.Node, classes ...string) string {
	values := make([]string, len(classes))
	for i, c := range classes {
		values[i] = findText(doc, c)
	}
	return "[" + strings.Join(values, ",") + "]"
}

var (
	robAxes = []string{"rax_1", "rax_2", "rax_3", "rax_4", "rax_5", "rax_6"}
	extAxes = []string{"eax_a", "eax_b", "eax_c", "eax_d", "eax_e", "eax_f"}
)

// MechanicalUnitJointTarget возвращает текущее положение осей механического блока.
func (s *Session) MechanicalUnitJointTarget(ctx context.Context, unit string) (*rapid.JointTarget, error) {
	doc, err := s.readUnit(ctx, unit, "/jointtarget")
	if err != nil {
		return nil, err
	}

	if len(byClass(doc, "rax_1")) == 0 {
		return nil, inconsistent(doc, unit, "jointtarget")
	}
	text := "[" + tuple(doc, robAxes...) + "," + tuple(doc, extAxes...) + "]"
	target := new(rapid.JointTarget)
	if err := rapid.Unmarshal(text, target); err != nil {
		return nil, fmt.Errorf("mechanical unit %s jointtarget: %w", unit, err)
	}
	return target, nil
}

// MechanicalUnitRobTarget возвращает текущее декартово положение механического блока
// в системе координат coord с учетом инструмента и рабочего объекта (пустые - активные).
func (s *Session) MechanicalUnitRobTarget(ctx context.Context, unit string, coord Coordinate, tool, wobj string) (*rapid.RobTarget, error) {
	query := url.Values{}
	if coord != CoordinateActive {
		query.Set("coordinate", string(coord))
		if tool != "" {
			query.Set("tool", tool)
		}
		if wobj != "" {
			query.Set("wobj", wobj)
		}
	}
	suffix := "/robtarget"
	if len(query) > 0 {
		suffix += "?" + query.Encode()
	}

	doc, err := s.readUnit(ctx, unit, suffix)
	if err != nil {
		return nil, err
	}

	if len(byClass(doc, "x")) == 0 {
		return nil, inconsistent(doc, unit, "robtarget")
	}
	text := "[" + tuple(doc, "x", "y", "z") + "," +
		tuple(doc, "q1", "q2", "q3", "q4") + "," +
		tuple(doc, "cf1", "cf4", "cf6", "cfx") + "," +
		tuple(doc, extAxes...) + "]"
	target := new(rapid.RobTarget)
	if err := rapid.Unmarshal(text, target); err != nil {
		return nil, fmt.Errorf("mechanical unit %s robtarget: %w", unit, err)
	}
	return target, nil
}
