package rws

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/rapid"
)

// Домены и типы конфигурации контроллера.
const (
	domainMOC = "moc"
	domainSYS = "sys"

	typeArm                 = "arm"
	typeJoint               = "joint"
	typeMechanicalUnit      = "mechanical_unit"
	typeMechanicalUnitGroup = "mechanical_unit_group"
	typePresentOptions      = "present_options"
	typeRobot               = "robot"
	typeSingle              = "single"
	typeTransmission        = "transmission"
)

// cfgInstance - один экземпляр конфигурации: заголовок и атрибуты по имени.
type cfgInstance struct {
	title string
	attrs map[string]string
	order []string
}

func (i cfgInstance) value(name string) (string, bool) {
	v, ok := i.attrs[name]
	return v, ok
}

// indexed собирает значения атрибутов prefix_0..prefix_N в порядке документа.
func (i cfgInstance) indexed(prefix string) []string {
	var out []string
	for _, name := range i.order {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(rest); err == nil {
			out = append(out, i.attrs[name])
		}
	}
	return out
}

func (s *Session) readCFG(ctx context.Context, domain, typ string) ([]cfgInstance, error) {
	body, err := s.get(ctx, cfgInstances(domain, typ))
	if err != nil {
		return nil, fmt.Errorf("read cfg %s/%s: %w", domain, typ, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var out []cfgInstance
	for _, node := range byClass(doc, "cfg-dt-instance-li") {
		inst := cfgInstance{title: attr(node, "title"), attrs: make(map[string]string)}
		for _, a := range byClass(node, "cfg-ia-t-li") {
			name := attr(a, "title")
			if name == "" {
				continue
			}
			inst.attrs[name] = findText(a, "value")
			inst.order = append(inst.order, name)
		}
		out = append(out, inst)
	}
	return out, nil
}

// cfgParser накапливает первую ошибку разбора атрибутов экземпляра.
type cfgParser struct {
	typ  string
	inst cfgInstance
	err  error
}

func (p *cfgParser) fail(name, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: cfg %s instance %q: attribute %s=%q", apperrors.ErrProtocol, p.typ, p.inst.title, name, value)
	}
}

// required возвращает непустое значение атрибута. Отсутствующий атрибут
// допустим, пустой считается ошибкой.
func (p *cfgParser) required(name string) string {
	v, ok := p.inst.value(name)
	if ok && v == "" {
		p.fail(name, v)
	}
	return v
}

// name возвращает имя экземпляра, которое обязано присутствовать.
func (p *cfgParser) name(attrName string) string {
	v, ok := p.inst.value(attrName)
	if !ok || v == "" {
		p.fail(attrName, v)
	}
	return v
}

func (p *cfgParser) optional(name string) string {
	v, _ := p.inst.value(name)
	return v
}

func (p *cfgParser) float(name string) float64 {
	v, ok := p.inst.value(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(name, v)
	}
	return f
}

func (p *cfgParser) int(name string) int {
	v, ok := p.inst.value(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(name, v)
	}
	return n
}

// baseFrame собирает систему координат основания. Смещение в конфигурации задано в метрах.
func (p *cfgParser) baseFrame() *rapid.Pose {
	return &rapid.Pose{
		Trans: &rapid.Pos{
			X: p.float("base_frame_pos_x") * 1e3,
			Y: p.float("base_frame_pos_y") * 1e3,
			Z: p.float("base_frame_pos_z") * 1e3,
		},
		Rot: &rapid.Orient{
			Q1: p.float("base_frame_orient_u0"),
			Q2: p.float("base_frame_orient_u1"),
			Q3: p.float("base_frame_orient_u2"),
			Q4: p.float("base_frame_orient_u3"),
		},
	}
}

// CFGArms возвращает конфигурацию рук (MOC/ARM).
func (s *Session) CFGArms(ctx context.Context) ([]models.CFGArm, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeArm)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGArm, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeArm, inst: inst}
		arm := models.CFGArm{
			Name:            p.name("name"),
			LowerJointBound: p.float("lower_joint_bound"),
			UpperJointBound: p.float("upper_joint_bound"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, arm)
	}
	return out, nil
}

// CFGJoints возвращает конфигурацию сочленений (MOC/JOINT).
func (s *Session) CFGJoints(ctx context.Context) ([]models.CFGJoint, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeJoint)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGJoint, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeJoint, inst: inst}
		joint := models.CFGJoint{
			Name:                p.name("name"),
			LogicalAxis:         p.int("logical_axis"),
			KinematicAxisNumber: p.int("kinematic_axis_number"),
			UseArm:              p.required("use_arm"),
			UseTransmission:     p.required("use_transmission"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, joint)
	}
	return out, nil
}

// CFGMechanicalUnits возвращает конфигурацию механических блоков (MOC/MECHANICAL_UNIT).
func (s *Session) CFGMechanicalUnits(ctx context.Context) ([]models.CFGMechanicalUnit, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeMechanicalUnit)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGMechanicalUnit, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeMechanicalUnit, inst: inst}
		unit := models.CFGMechanicalUnit{
			Name:       p.name("name"),
			UseRobot:   p.optional("use_robot"),
			UseSingles: inst.indexed("use_single_"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, unit)
	}
	return out, nil
}

// CFGMechanicalUnitGroups возвращает группы механических блоков (SYS/MECHANICAL_UNIT_GROUP).
func (s *Session) CFGMechanicalUnitGroups(ctx context.Context) ([]models.CFGMechanicalUnitGroup, error) {
	instances, err := s.readCFG(ctx, domainSYS, typeMechanicalUnitGroup)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGMechanicalUnitGroup, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeMechanicalUnitGroup, inst: inst}
		group := models.CFGMechanicalUnitGroup{
			Name:            p.name("Name"),
			Robot:           p.optional("Robot"),
			MechanicalUnits: inst.indexed("MechanicalUnit_"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, group)
	}
	return out, nil
}

// CFGPresentOptions возвращает установленные опции RobotWare (SYS/PRESENT_OPTIONS).
func (s *Session) CFGPresentOptions(ctx context.Context) ([]models.CFGPresentOption, error) {
	instances, err := s.readCFG(ctx, domainSYS, typePresentOptions)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGPresentOption, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typePresentOptions, inst: inst}
		option := models.CFGPresentOption{
			Name:        p.name("name"),
			Description: p.required("desc"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, option)
	}
	return out, nil
}

// CFGRobots возвращает конфигурацию роботов (MOC/ROBOT).
func (s *Session) CFGRobots(ctx context.Context) ([]models.CFGRobot, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeRobot)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGRobot, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeRobot, inst: inst}
		robot := models.CFGRobot{
			Name:             p.name("name"),
			UseRobotType:     p.required("use_robot_type"),
			UseJoints:        inst.indexed("use_joint_"),
			BaseFrame:        p.baseFrame(),
			BaseFrameMovedBy: p.optional("base_frame_coordinated"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, robot)
	}
	return out, nil
}

// CFGSingles возвращает конфигурацию одиночных осей (MOC/SINGLE).
func (s *Session) CFGSingles(ctx context.Context) ([]models.CFGSingle, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeSingle)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGSingle, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeSingle, inst: inst}
		single := models.CFGSingle{
			Name:                 p.name("name"),
			UseSingleType:        p.required("use_single_type"),
			UseJoint:             p.required("use_joint"),
			BaseFrame:            p.baseFrame(),
			BaseFrameCoordinated: p.optional("base_frame_coordinated"),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, single)
	}
	return out, nil
}

// CFGTransmissions возвращает конфигурацию передач (MOC/TRANSMISSION).
// Имя передачи берется из заголовка экземпляра.
func (s *Session) CFGTransmissions(ctx context.Context) ([]models.CFGTransmission, error) {
	instances, err := s.readCFG(ctx, domainMOC, typeTransmission)
	if err != nil {
		return nil, err
	}
	out := make([]models.CFGTransmission, 0, len(instances))
	for _, inst := range instances {
		p := &cfgParser{typ: typeTransmission, inst: inst}
		if inst.title == "" {
			p.fail("title", "")
		}
		rotating := p.required("rotating_move")
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, models.CFGTransmission{
			Name:         inst.title,
			RotatingMove: strings.EqualFold(rotating, "true"),
		})
	}
	return out, nil
}
