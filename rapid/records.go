package rapid

// RobJoint - положения осей робота, градусы.
type RobJoint struct {
	Rax1 float64 `json:"rax_1"`
	Rax2 float64 `json:"rax_2"`
	Rax3 float64 `json:"rax_3"`
	Rax4 float64 `json:"rax_4"`
	Rax5 float64 `json:"rax_5"`
	Rax6 float64 `json:"rax_6"`
}

func (v *RobJoint) Type() string                     { return TypeRobJoint }
func (v *RobJoint) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *RobJoint) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *RobJoint) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeRobJoint, path)
	}
	w := newWriter(TypeRobJoint, path)
	w.num("rax_1", v.Rax1)
	w.num("rax_2", v.Rax2)
	w.num("rax_3", v.Rax3)
	w.num("rax_4", v.Rax4)
	w.num("rax_5", v.Rax5)
	w.num("rax_6", v.Rax6)
	return w.done()
}

func (v *RobJoint) decode(path, text string) error {
	r := newReader(TypeRobJoint, path, text, 6)
	tmp := RobJoint{
		Rax1: r.num("rax_1"),
		Rax2: r.num("rax_2"),
		Rax3: r.num("rax_3"),
		Rax4: r.num("rax_4"),
		Rax5: r.num("rax_5"),
		Rax6: r.num("rax_6"),
	}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// ExtJoint - положения внешних осей. Значение 9E9 означает, что ось не используется.
type ExtJoint struct {
	EaxA float64 `json:"eax_a"`
	EaxB float64 `json:"eax_b"`
	EaxC float64 `json:"eax_c"`
	EaxD float64 `json:"eax_d"`
	EaxE float64 `json:"eax_e"`
	EaxF float64 `json:"eax_f"`
}

// UnusedAxis - значение внешней оси, которая не используется.
const UnusedAxis = 9e9

func (v *ExtJoint) Type() string                     { return TypeExtJoint }
func (v *ExtJoint) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *ExtJoint) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *ExtJoint) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeExtJoint, path)
	}
	w := newWriter(TypeExtJoint, path)
	w.num("eax_a", v.EaxA)
	w.num("eax_b", v.EaxB)
	w.num("eax_c", v.EaxC)
	w.num("eax_d", v.EaxD)
	w.num("eax_e", v.EaxE)
	w.num("eax_f", v.EaxF)
	return w.done()
}

func (v *ExtJoint) decode(path, text string) error {
	r := newReader(TypeExtJoint, path, text, 6)
	tmp := ExtJoint{
		EaxA: r.num("eax_a"),
		EaxB: r.num("eax_b"),
		EaxC: r.num("eax_c"),
		EaxD: r.num("eax_d"),
		EaxE: r.num("eax_e"),
		EaxF: r.num("eax_f"),
	}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// JointTarget - положение робота и внешних осей в пространстве осей.
type JointTarget struct {
	RobAx *RobJoint `json:"robax"`
	ExtAx *ExtJoint `json:"extax"`
}

func (v *JointTarget) Type() string                     { return TypeJointTarget }
func (v *JointTarget) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *JointTarget) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *JointTarget) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeJointTarget, path)
	}
	w := newWriter(TypeJointTarget, path)
	w.record("robax", v.RobAx)
	w.record("extax", v.ExtAx)
	return w.done()
}

func (v *JointTarget) decode(path, text string) error {
	r := newReader(TypeJointTarget, path, text, 2)
	tmp := JointTarget{RobAx: new(RobJoint), ExtAx: new(ExtJoint)}
	r.record("robax", tmp.RobAx)
	r.record("extax", tmp.ExtAx)
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// Pos - позиция x, y, z в мм.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v *Pos) Type() string                     { return TypePos }
func (v *Pos) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *Pos) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Pos) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypePos, path)
	}
	w := newWriter(TypePos, path)
	w.num("x", v.X)
	w.num("y", v.Y)
	w.num("z", v.Z)
	return w.done()
}

func (v *Pos) decode(path, text string) error {
	r := newReader(TypePos, path, text, 3)
	tmp := Pos{X: r.num("x"), Y: r.num("y"), Z: r.num("z")}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// Orient - ориентация в виде кватерниона.
type Orient struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
	Q4 float64 `json:"q4"`
}

func (v *Orient) Type() string                     { return TypeOrient }
func (v *Orient) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *Orient) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Orient) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeOrient, path)
	}
	w := newWriter(TypeOrient, path)
	w.num("q1", v.Q1)
	w.num("q2", v.Q2)
	w.num("q3", v.Q3)
	w.num("q4", v.Q4)
	return w.done()
}

func (v *Orient) decode(path, text string) error {
	r := newReader(TypeOrient, path, text, 4)
	tmp := Orient{Q1: r.num("q1"), Q2: r.num("q2"), Q3: r.num("q3"), Q4: r.num("q4")}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// Pose - система координат: смещение и поворот.
type Pose struct {
	Trans *Pos    `json:"trans"`
	Rot   *Orient `json:"rot"`
}

func (v *Pose) Type() string                     { return TypePose }
func (v *Pose) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *Pose) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *Pose) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypePose, path)
	}
	w := newWriter(TypePose, path)
	w.record("trans", v.Trans)
	w.record("rot", v.Rot)
	return w.done()
}

func (v *Pose) decode(path, text string) error {
	r := newReader(TypePose, path, text, 2)
	tmp := Pose{Trans: new(Pos), Rot: new(Orient)}
	r.record("trans", tmp.Trans)
	r.record("rot", tmp.Rot)
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// ConfData - конфигурация осей робота (квадранты осей 1, 4, 6 и cfx).
type ConfData struct {
	Cf1 float64 `json:"cf1"`
	Cf4 float64 `json:"cf4"`
	Cf6 float64 `json:"cf6"`
	Cfx float64 `json:"cfx"`
}

func (v *ConfData) Type() string                     { return TypeConfData }
func (v *ConfData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *ConfData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *ConfData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeConfData, path)
	}
	w := newWriter(TypeConfData, path)
	w.num("cf1", v.Cf1)
	w.num("cf4", v.Cf4)
	w.num("cf6", v.Cf6)
	w.num("cfx", v.Cfx)
	return w.done()
}

func (v *ConfData) decode(path, text string) error {
	r := newReader(TypeConfData, path, text, 4)
	tmp := ConfData{Cf1: r.num("cf1"), Cf4: r.num("cf4"), Cf6: r.num("cf6"), Cfx: r.num("cfx")}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// RobTarget - положение робота и внешних осей в декартовом пространстве.
type RobTarget struct {
	Trans   *Pos      `json:"trans"`
	Rot     *Orient   `json:"rot"`
	RobConf *ConfData `json:"robconf"`
	ExtAx   *ExtJoint `json:"extax"`
}

func (v *RobTarget) Type() string                     { return TypeRobTarget }
func (v *RobTarget) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *RobTarget) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *RobTarget) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeRobTarget, path)
	}
	w := newWriter(TypeRobTarget, path)
	w.record("trans", v.Trans)
	w.record("rot", v.Rot)
	w.record("robconf", v.RobConf)
	w.record("extax", v.ExtAx)
	return w.done()
}

func (v *RobTarget) decode(path, text string) error {
	r := newReader(TypeRobTarget, path, text, 4)
	tmp := RobTarget{Trans: new(Pos), Rot: new(Orient), RobConf: new(ConfData), ExtAx: new(ExtJoint)}
	r.record("trans", tmp.Trans)
	r.record("rot", tmp.Rot)
	r.record("robconf", tmp.RobConf)
	r.record("extax", tmp.ExtAx)
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// LoadData - нагрузка: масса (кг), центр тяжести, оси моментов и инерция (кг*м^2).
type LoadData struct {
	Mass float64 `json:"mass"`
	Cog  *Pos    `json:"cog"`
	Aom  *Orient `json:"aom"`
	Ix   float64 `json:"ix"`
	Iy   float64 `json:"iy"`
	Iz   float64 `json:"iz"`
}

func (v *LoadData) Type() string                     { return TypeLoadData }
func (v *LoadData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *LoadData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *LoadData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeLoadData, path)
	}
	w := newWriter(TypeLoadData, path)
	w.num("mass", v.Mass)
	w.record("cog", v.Cog)
	w.record("aom", v.Aom)
	w.num("ix", v.Ix)
	w.num("iy", v.Iy)
	w.num("iz", v.Iz)
	return w.done()
}

func (v *LoadData) decode(path, text string) error {
	r := newReader(TypeLoadData, path, text, 6)
	tmp := LoadData{Cog: new(Pos), Aom: new(Orient)}
	tmp.Mass = r.num("mass")
	r.record("cog", tmp.Cog)
	r.record("aom", tmp.Aom)
	tmp.Ix = r.num("ix")
	tmp.Iy = r.num("iy")
	tmp.Iz = r.num("iz")
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// ToolData - инструмент: держит ли его робот, система координат и нагрузка.
type ToolData struct {
	RobHold bool      `json:"robhold"`
	TFrame  *Pose     `json:"tframe"`
	TLoad   *LoadData `json:"tload"`
}

func (v *ToolData) Type() string                     { return TypeToolData }
func (v *ToolData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *ToolData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *ToolData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeToolData, path)
	}
	w := newWriter(TypeToolData, path)
	w.bool(v.RobHold)
	w.record("tframe", v.TFrame)
	w.record("tload", v.TLoad)
	return w.done()
}

func (v *ToolData) decode(path, text string) error {
	r := newReader(TypeToolData, path, text, 3)
	tmp := ToolData{TFrame: new(Pose), TLoad: new(LoadData)}
	tmp.RobHold = r.bool("robhold")
	r.record("tframe", tmp.TFrame)
	r.record("tload", tmp.TLoad)
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// WObjData - рабочий объект.
type WObjData struct {
	RobHold bool   `json:"robhold"`
	UFProg  bool   `json:"ufprog"`
	UFMec   string `json:"ufmec"`
	UFrame  *Pose  `json:"uframe"`
	OFrame  *Pose  `json:"oframe"`
}

func (v *WObjData) Type() string                     { return TypeWObjData }
func (v *WObjData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *WObjData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *WObjData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeWObjData, path)
	}
	w := newWriter(TypeWObjData, path)
	w.bool(v.RobHold)
	w.bool(v.UFProg)
	w.str(v.UFMec)
	w.record("uframe", v.UFrame)
	w.record("oframe", v.OFrame)
	return w.done()
}

func (v *WObjData) decode(path, text string) error {
	r := newReader(TypeWObjData, path, text, 5)
	tmp := WObjData{UFrame: new(Pose), OFrame: new(Pose)}
	tmp.RobHold = r.bool("robhold")
	tmp.UFProg = r.bool("ufprog")
	tmp.UFMec = r.str("ufmec")
	r.record("uframe", tmp.UFrame)
	r.record("oframe", tmp.OFrame)
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// SpeedData - скорости: TCP (мм/с), переориентации (град/с), внешних осей.
type SpeedData struct {
	VTcp  float64 `json:"v_tcp"`
	VOri  float64 `json:"v_ori"`
	VLeax float64 `json:"v_leax"`
	VReax float64 `json:"v_reax"`
}

func (v *SpeedData) Type() string                     { return TypeSpeedData }
func (v *SpeedData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *SpeedData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *SpeedData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeSpeedData, path)
	}
	w := newWriter(TypeSpeedData, path)
	w.num("v_tcp", v.VTcp)
	w.num("v_ori", v.VOri)
	w.num("v_leax", v.VLeax)
	w.num("v_reax", v.VReax)
	return w.done()
}

func (v *SpeedData) decode(path, text string) error {
	r := newReader(TypeSpeedData, path, text, 4)
	tmp := SpeedData{
		VTcp:  r.num("v_tcp"),
		VOri:  r.num("v_ori"),
		VLeax: r.num("v_leax"),
		VReax: r.num("v_reax"),
	}
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}

// ZoneData - зона сглаживания траектории.
type ZoneData struct {
	FineP    bool    `json:"finep"`
	PZoneTCP float64 `json:"pzone_tcp"`
	PZoneOri float64 `json:"pzone_ori"`
	PZoneEax float64 `json:"pzone_eax"`
	ZoneOri  float64 `json:"zone_ori"`
	ZoneLeax float64 `json:"zone_leax"`
	ZoneReax float64 `json:"zone_reax"`
}

func (v *ZoneData) Type() string                     { return TypeZoneData }
func (v *ZoneData) MarshalRAPID() (string, error)    { return v.encode("") }
func (v *ZoneData) UnmarshalRAPID(text string) error { return v.decode("", text) }

func (v *ZoneData) encode(path string) (string, error) {
	if v == nil {
		return "", incomplete(TypeZoneData, path)
	}
	w := newWriter(TypeZoneData, path)
	w.bool(v.FineP)
	w.num("pzone_tcp", v.PZoneTCP)
	w.num("pzone_ori", v.PZoneOri)
	w.num("pzone_eax", v.PZoneEax)
	w.num("zone_ori", v.ZoneOri)
	w.num("zone_leax", v.ZoneLeax)
	w.num("zone_reax", v.ZoneReax)
	return w.done()
}

func (v *ZoneData) decode(path, text string) error {
	r := newReader(TypeZoneData, path, text, 7)
	tmp := ZoneData{FineP: r.bool("finep")}
	tmp.PZoneTCP = r.num("pzone_tcp")
	tmp.PZoneOri = r.num("pzone_ori")
	tmp.PZoneEax = r.num("pzone_eax")
	tmp.ZoneOri = r.num("zone_ori")
	tmp.ZoneLeax = r.num("zone_leax")
	tmp.ZoneReax = r.num("zone_reax")
	if r.err != nil {
		return r.err
	}
	*v = tmp
	return nil
}
