package rws

import (
	"net/url"
	"strings"
)

const (
	resourceSystem        = "/rw/system"
	resourceCtrl          = "/ctrl"
	resourceLogout        = "/logout"
	resourceUsers         = "/users"
	resourceRMMP          = "/users/rmmp"
	resourceRMMPPoll      = "/users/rmmp/poll"
	resourceSpeedRatio    = "/rw/panel/speedratio"
	resourceOpMode        = "/rw/panel/opmode"
	resourceExecution     = "/rw/rapid/execution"
	resourceTasks         = "/rw/rapid/tasks"
	resourceMechUnits     = "/rw/motionsystem/mechunits"
	resourceIOSignals     = "/rw/iosystem/signals"
	resourceConfiguration = "/rw/cfg"
	resourceFileService   = "/fileservice"
	resourceElog          = "/rw/elog"
	resourceSubscription  = "/subscription"
	resourcePoll          = "/poll"
)

// Значения, которые контроллер возвращает в XHTML ответах.
const (
	valueTrue      = "TRUE"
	valueOn        = "On"
	valueAuto      = "AUTO"
	valueMotorOn   = "motoron"
	valueMotorOff  = "motoroff"
	valueRunning   = "running"
	valueActivated = "Activated"
)

// Symbol адресует данные RAPID: задача, модуль и имя символа.
type Symbol struct {
	Task   string `json:"task"`
	Module string `json:"module"`
	Name   string `json:"name"`
}

// ParseSymbol разбирает адрес вида "T_ROB1/module/name".
func ParseSymbol(path string) (Symbol, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Symbol{}, false
	}
	return Symbol{Task: parts[0], Module: parts[1], Name: parts[2]}, true
}

func (s Symbol) String() string {
	return s.Task + "/" + s.Module + "/" + s.Name
}

func cfgInstances(domain, typ string) string {
	return resourceConfiguration + "/" + domain + "/" + typ + "/instances"
}

func mechUnit(name string) string {
	return resourceMechUnits + "/" + url.PathEscape(name)
}
