package models

import (
	"time"

	"github.com/iwtcode/abbAdapter/rapid"
)

// SystemInfo содержит системную информацию о контроллере
type SystemInfo struct {
	RobotWareVersion string   `json:"robot_ware_version"`
	SystemName       string   `json:"system_name"`
	SystemType       string   `json:"system_type"`
	SystemOptions    []string `json:"system_options"`
}

// RuntimeInfo содержит основное состояние контроллера во время работы
type RuntimeInfo struct {
	AutoMode     bool `json:"auto_mode"`
	MotorsOn     bool `json:"motors_on"`
	RAPIDRunning bool `json:"rapid_running"`
	RWSConnected bool `json:"rws_connected"`
}

// RAPIDExecution содержит состояние выполнения программ RAPID
type RAPIDExecution struct {
	State string `json:"state"` // running или stopped
	Cycle string `json:"cycle"` // once, forever, asis
}

// RAPIDTaskInfo содержит информацию о задаче RAPID
type RAPIDTaskInfo struct {
	Name           string `json:"name"`
	IsMotionTask   bool   `json:"is_motion_task"`
	IsActive       bool   `json:"is_active"`
	ExecutionState string `json:"execution_state"` // ready, stopped, started, uninitialized, unknown
}

// RAPIDModuleInfo содержит информацию о модуле RAPID
type RAPIDModuleInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RAPIDSymbolProperties содержит свойства символа RAPID
type RAPIDSymbolProperties struct {
	DataType   string `json:"data_type"`
	SymbolType string `json:"symbol_type,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
}

// StaticInfo содержит статическую информацию о механическом блоке
type StaticInfo struct {
	TaskName          string `json:"task_name"`
	IsIntegratedUnit  string `json:"is_integrated_unit"`
	HasIntegratedUnit string `json:"has_integrated_unit"`
	Type              string `json:"type"` // none, tcp_robot, robot, single
	AxesTotal         int    `json:"axes_total"`
	Axes              int    `json:"axes"`
}

// DynamicInfo содержит текущее состояние механического блока
type DynamicInfo struct {
	ToolName         string `json:"tool_name"`
	WobjName         string `json:"wobj_name"`
	PayloadName      string `json:"payload_name"`
	TotalPayloadName string `json:"total_payload_name"`
	Status           string `json:"status"`
	Mode             string `json:"mode"` // activated или deactivated
	JogMode          string `json:"jog_mode"`
	CoordSystem      string `json:"coord_system"` // base, tool, wobj, world
}

// CFGArm содержит конфигурацию руки (MOC/ARM)
type CFGArm struct {
	Name            string  `json:"name"`
	LowerJointBound float64 `json:"lower_joint_bound"`
	UpperJointBound float64 `json:"upper_joint_bound"`
}

// CFGJoint содержит конфигурацию сочленения (MOC/JOINT)
type CFGJoint struct {
	Name                string `json:"name"`
	LogicalAxis         int    `json:"logical_axis"`
	KinematicAxisNumber int    `json:"kinematic_axis_number"`
	UseArm              string `json:"use_arm"`
	UseTransmission     string `json:"use_transmission"`
}

// CFGMechanicalUnit содержит конфигурацию механического блока (MOC/MECHANICAL_UNIT)
type CFGMechanicalUnit struct {
	Name       string   `json:"name"`
	UseRobot   string   `json:"use_robot"`
	UseSingles []string `json:"use_singles"`
}

// CFGMechanicalUnitGroup содержит конфигурацию группы механических блоков (SYS/MECHANICAL_UNIT_GROUP)
type CFGMechanicalUnitGroup struct {
	Name            string   `json:"name"`
	Robot           string   `json:"robot"`
	MechanicalUnits []string `json:"mechanical_units"`
}

// CFGPresentOption содержит установленную опцию RobotWare (SYS/PRESENT_OPTIONS)
type CFGPresentOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CFGRobot содержит конфигурацию робота (MOC/ROBOT). Смещение базы в мм.
type CFGRobot struct {
	Name             string      `json:"name"`
	UseRobotType     string      `json:"use_robot_type"`
	UseJoints        []string    `json:"use_joints"`
	BaseFrame        *rapid.Pose `json:"base_frame"`
	BaseFrameMovedBy string      `json:"base_frame_moved_by"`
}

// CFGSingle содержит конфигурацию одиночной оси (MOC/SINGLE). Смещение базы в мм.
type CFGSingle struct {
	Name                 string      `json:"name"`
	UseSingleType        string      `json:"use_single_type"`
	UseJoint             string      `json:"use_joint"`
	BaseFrame            *rapid.Pose `json:"base_frame"`
	BaseFrameCoordinated string      `json:"base_frame_coordinated"`
}

// CFGTransmission содержит конфигурацию передачи (MOC/TRANSMISSION)
type CFGTransmission struct {
	Name         string `json:"name"`
	RotatingMove bool   `json:"rotating_move"`
}

// IOSignal содержит текущее значение сигнала ввода-вывода
type IOSignal struct {
	Name  string `json:"name"`
	Type  string `json:"type"` // DI, DO, AI, AO, GI, GO
	Value string `json:"value"`
}

// RMMPPhase - фаза согласования привилегии RMMP со стороны клиента
type RMMPPhase string

const (
	RMMPObserver      RMMPPhase = "observer"
	RMMPPendingModify RMMPPhase = "pending_modify"
	RMMPModify        RMMPPhase = "modify"
)

// RMMPState содержит фазу сессии и последний ответ контроллера на опрос RMMP
type RMMPState struct {
	Phase       RMMPPhase `json:"phase"`
	Privilege   string    `json:"privilege"` // none, modify, exec
	Status      string    `json:"status,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Alias       string    `json:"alias,omitempty"`
	Location    string    `json:"location,omitempty"`
	Application string    `json:"application,omitempty"`
}

// ExchangeLog содержит запись об одном HTTP обмене с контроллером
type ExchangeLog struct {
	Time       time.Time     `json:"time"`
	Method     string        `json:"method"`
	URI        string        `json:"uri"`
	Request    string        `json:"request,omitempty"`
	StatusCode int           `json:"status_code"`
	Response   string        `json:"response,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// StaticData содержит сведения, которые не меняются за время сессии.
type StaticData struct {
	System    SystemInfo            `json:"system"`
	Tasks     []RAPIDTaskInfo       `json:"tasks"`
	Units     map[string]StaticInfo `json:"units"`
	Timestamp time.Time             `json:"timestamp"`
}

// AggregatedData содержит сводку текущего состояния контроллера.
type AggregatedData struct {
	Host         string                        `json:"host"`
	Timestamp    time.Time                     `json:"timestamp"`
	Runtime      RuntimeInfo                   `json:"runtime"`
	Execution    *RAPIDExecution               `json:"execution,omitempty"`
	SpeedRatio   int                           `json:"speed_ratio"`
	JointTargets map[string]*rapid.JointTarget `json:"joint_targets"`
	DynamicInfos map[string]DynamicInfo        `json:"dynamic_infos"`
	RecentElog   []ElogMessage                 `json:"recent_elog,omitempty"`
}

// ElogMessageType - категория сообщения журнала событий
type ElogMessageType string

const (
	ElogInformation ElogMessageType = "information"
	ElogWarning     ElogMessageType = "warning"
	ElogError       ElogMessageType = "error"
)

// ElogDomain описывает домен журнала событий (0 - общий, 1 - операционный и т.д.)
type ElogDomain struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// ElogArg - аргумент сообщения журнала: STRING, LONG или FLOAT
type ElogArg struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ElogMessage содержит одно сообщение журнала событий контроллера
type ElogMessage struct {
	Domain         int             `json:"domain"`
	SequenceNumber int             `json:"sequence_number"`
	Type           ElogMessageType `json:"type"`
	Code           int             `json:"code"`
	Source         string          `json:"source,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Consequences   string          `json:"consequences,omitempty"`
	Causes         string          `json:"causes,omitempty"`
	Actions        string          `json:"actions,omitempty"`
	Args           []ElogArg       `json:"args,omitempty"`
}

// EventKind - вид события подписки
type EventKind string

const (
	EventIOSignal       EventKind = "io_signal"
	EventExecutionState EventKind = "execution_state"
	EventRAPIDValue     EventKind = "rapid_value"
	EventElog           EventKind = "elog"
	EventOther          EventKind = "other"
)

// SubscriptionEvent - одно событие, полученное по WebSocket подписки.
// Заполняются только поля, относящиеся к виду события.
type SubscriptionEvent struct {
	Kind       EventKind `json:"kind"`
	Class      string    `json:"class"`
	Resource   string    `json:"resource"`
	Signal     string    `json:"signal,omitempty"`
	Symbol     string    `json:"symbol,omitempty"`
	Value      string    `json:"value,omitempty"`
	State      string    `json:"state,omitempty"`
	ElogDomain int       `json:"elog_domain,omitempty"`
	ElogSeqNum int       `json:"elog_seqnum,omitempty"`
	Received   time.Time `json:"received"`
}
