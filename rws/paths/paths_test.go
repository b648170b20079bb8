package paths

import (
	"testing"

	"github.com/iwtcode/abbAdapter/rws/model"
	"github.com/stretchr/testify/assert"
)

func TestV1Paths(t *testing.T) {
	var p model.Paths = V1{}

	assert.Equal(t, "/rw/rapid/symbol/data/RAPID/T_ROB1/user/reg1", p.SymbolData("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/symbol/data/RAPID/T_ROB1/user/reg1?action=set", p.SetSymbolData("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/symbol/properties/RAPID/T_ROB1/user/reg1", p.SymbolProperties("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/modules?task=T_ROB1", p.Modules("T_ROB1"))
	assert.Equal(t, "/rw/rapid/execution?action=start", p.ExecutionStart())
	assert.Equal(t, map[string]string{"stopmode": "stop", "usetsp": "normal"}, p.StopForm("stop", "normal"))
	assert.Equal(t, "/rw/panel/ctrlstate?action=setctrlstate", p.SetCtrlState())
	assert.Equal(t, "/rw/mastership?action=request", p.MastershipRequest(""))
	assert.Equal(t, "/rw/mastership/motion?action=release", p.MastershipRelease("motion"))
	assert.Equal(t, "/rw/iosystem/signals/Local/DRV_1/DO1?action=set", p.SetIOSignal("Local/DRV_1/DO1"))
	assert.Equal(t, "/rw/rapid/symbol/data/RAPID/T_ROB1/user/reg1;value", p.SymbolSubscription("T_ROB1", "user", "reg1"))
	assert.Equal(t, "robapi2_subscription", p.SubscriptionProtocol())
}

func TestV2Paths(t *testing.T) {
	var p model.Paths = V2{}

	assert.Equal(t, "/rw/rapid/symbol/RAPID/T_ROB1/user/reg1/data", p.SymbolData("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/symbol/RAPID/T_ROB1/user/reg1/data?initval=false&log=false&mastership=implicit", p.SetSymbolData("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/symbol/RAPID/T_ROB1/user/reg1/properties", p.SymbolProperties("T_ROB1", "user", "reg1"))
	assert.Equal(t, "/rw/rapid/tasks/T_ROB1/modules", p.Modules("T_ROB1"))
	assert.Equal(t, "/rw/rapid/execution/stop", p.ExecutionStop())
	assert.Equal(t, map[string]string{"stopmode": "cycle"}, p.StopForm("cycle", "alltsk"))
	assert.Equal(t, "/rw/panel/ctrl-state", p.CtrlState())
	assert.Equal(t, "/rw/mastership/rapid/request", p.MastershipRequest("rapid"))
	assert.Equal(t, "/rw/iosystem/signals/DO1/set-value", p.SetIOSignal("DO1"))
	assert.Equal(t, "/rw/rapid/symbol/RAPID/T_ROB1/user/reg1;value", p.SymbolSubscription("T_ROB1", "user", "reg1"))
	assert.Equal(t, "rws_subscription", p.SubscriptionProtocol())
}

func TestSignalPathEscaping(t *testing.T) {
	assert.Equal(t, "/rw/iosystem/signals/Local/DRV_1/DO%232", SignalPath("/Local/DRV_1/DO#2/"))
	assert.Equal(t, "/rw/iosystem/signals/Local/DRV_1/my%20sig?action=set", V1{}.SetIOSignal("Local/DRV_1/my sig"))
	assert.Equal(t, "/rw/iosystem/signals/a%3Fb/set-value", V2{}.SetIOSignal("a?b"))
}

func TestSymbolPathEscaping(t *testing.T) {
	assert.Equal(t, "/T_ROB1/my%20mod/a%3Fb", symbolPath("T_ROB1", "my mod", "a?b"))
}
