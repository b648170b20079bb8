package paths

import (
	"net/url"

	"github.com/iwtcode/abbAdapter/rws/model"
)

// V2 - адреса ресурсов RWS 2.0 (OmniCore). Операции, требующие мастерства,
// выполняются с неявным захватом (mastership=implicit).
type V2 struct{}

var _ model.Paths = V2{}

func (V2) SymbolData(task, module, name string) string {
	return "/rw/rapid/symbol/RAPID" + symbolPath(task, module, name) + "/data"
}

func (p V2) SetSymbolData(task, module, name string) string {
	return p.SymbolData(task, module, name) + "?initval=false&log=false&mastership=implicit"
}

func (V2) SymbolProperties(task, module, name string) string {
	return "/rw/rapid/symbol/RAPID" + symbolPath(task, module, name) + "/properties"
}

func (V2) Modules(task string) string {
	return "/rw/rapid/tasks/" + url.PathEscape(task) + "/modules"
}

func (V2) ExecutionStart() string   { return "/rw/rapid/execution/start?mastership=implicit" }
func (V2) ExecutionStop() string    { return "/rw/rapid/execution/stop" }
func (V2) ExecutionResetPP() string { return "/rw/rapid/execution/resetpp?mastership=implicit" }

// StopForm для RWS 2.0 передает только режим остановки.
func (V2) StopForm(stopMode, _ string) map[string]string {
	return map[string]string{"stopmode": stopMode}
}

func (V2) CtrlState() string     { return "/rw/panel/ctrl-state" }
func (V2) SetCtrlState() string  { return "/rw/panel/ctrl-state" }
func (V2) SetSpeedRatio() string { return "/rw/panel/speedratio" }

func (V2) MastershipRequest(domain string) string {
	if domain == "" {
		return "/rw/mastership/request"
	}
	return "/rw/mastership/" + url.PathEscape(domain) + "/request"
}

func (V2) MastershipRelease(domain string) string {
	if domain == "" {
		return "/rw/mastership/release"
	}
	return "/rw/mastership/" + url.PathEscape(domain) + "/release"
}

func (V2) SetIOSignal(name string) string {
	return SignalPath(name) + "/set-value"
}

func (V2) SymbolSubscription(task, module, name string) string {
	return "/rw/rapid/symbol/RAPID/" + task + "/" + module + "/" + name + ";value"
}

func (V2) SubscriptionProtocol() string { return "rws_subscription" }
