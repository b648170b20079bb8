package model

// Версии протокола Robot Web Services.
const (
	Version1 = "1.0" // IRC5, RobotWare 6
	Version2 = "2.0" // OmniCore, RobotWare 7
)

// Paths определяет адреса ресурсов, которые отличаются между версиями RWS.
// Общие для всех версий ресурсы (/rw/system, /users, /rw/cfg и т.д.) сюда не входят.
// Интерфейс вынесен в отдельный пакет, чтобы реализации не зависели от пакета rws.
type Paths interface {
	// SymbolData - чтение значения символа RAPID.
	SymbolData(task, module, name string) string
	// SetSymbolData - запись значения символа RAPID.
	SetSymbolData(task, module, name string) string
	// SymbolProperties - свойства символа (тип данных).
	SymbolProperties(task, module, name string) string
	// Modules - список модулей задачи.
	Modules(task string) string

	ExecutionStart() string
	ExecutionStop() string
	ExecutionResetPP() string
	// StopForm возвращает тело запроса остановки для режима stopmode и usetsp.
	StopForm(stopMode, useTSP string) map[string]string

	CtrlState() string
	SetCtrlState() string
	SetSpeedRatio() string

	// MastershipRequest и MastershipRelease принимают домен (cfg, motion, rapid)
	// или пустую строку для всех доменов.
	MastershipRequest(domain string) string
	MastershipRelease(domain string) string

	SetIOSignal(name string) string

	// SymbolSubscription - ресурс подписки на изменение значения символа RAPID.
	SymbolSubscription(task, module, name string) string
	// SubscriptionProtocol - подпротокол WebSocket канала событий.
	SubscriptionProtocol() string
}
