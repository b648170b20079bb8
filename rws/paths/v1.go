package paths

import (
	"net/url"
	"strings"

	"github.com/iwtcode/abbAdapter/rws/model"
)

// V1 - адреса ресурсов RWS 1.0 (IRC5).
type V1 struct{}

var _ model.Paths = V1{}

func symbolPath(task, module, name string) string {
	return "/" + url.PathEscape(task) + "/" + url.PathEscape(module) + "/" + url.PathEscape(name)
}

// SignalPath экранирует имя сигнала по сегментам, разделители "/" сохраняются.
func SignalPath(name string) string {
	segments := strings.Split(strings.Trim(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/rw/iosystem/signals/" + strings.Join(segments, "/")
}

func (V1) SymbolData(task, module, name string) string {
	return "/rw/rapid/symbol/data/RAPID" + symbolPath(task, module, name)
}

func (p V1) SetSymbolData(task, module, name string) string {
	return p.SymbolData(task, module, name) + "?action=set"
}

func (V1) SymbolProperties(task, module, name string) string {
	return "/rw/rapid/symbol/properties/RAPID" + symbolPath(task, module, name)
}

func (V1) Modules(task string) string {
	return "/rw/rapid/modules?task=" + url.QueryEscape(task)
}

func (V1) ExecutionStart() string   { return "/rw/rapid/execution?action=start" }
func (V1) ExecutionStop() string    { return "/rw/rapid/execution?action=stop" }
func (V1) ExecutionResetPP() string { return "/rw/rapid/execution?action=resetpp" }

func (V1) StopForm(stopMode, useTSP string) map[string]string {
	return map[string]string{"stopmode": stopMode, "usetsp": useTSP}
}

func (V1) CtrlState() string     { return "/rw/panel/ctrlstate" }
func (V1) SetCtrlState() string  { return "/rw/panel/ctrlstate?action=setctrlstate" }
func (V1) SetSpeedRatio() string { return "/rw/panel/speedratio?action=setspeedratio" }

func (V1) MastershipRequest(domain string) string {
	if domain == "" {
		return "/rw/mastership?action=request"
	}
	return "/rw/mastership/" + url.PathEscape(domain) + "?action=request"
}

func (V1) MastershipRelease(domain string) string {
	if domain == "" {
		return "/rw/mastership?action=release"
	}
	return "/rw/mastership/" + url.PathEscape(domain) + "?action=release"
}

func (V1) SetIOSignal(name string) string {
	return SignalPath(name) + "?action=set"
}

func (V1) SymbolSubscription(task, module, name string) string {
	return "/rw/rapid/symbol/data/RAPID/" + task + "/" + module + "/" + name + ";value"
}

func (V1) SubscriptionProtocol() string { return "robapi2_subscription" }
