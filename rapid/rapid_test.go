package rapid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRobTarget() *RobTarget {
	return &RobTarget{
		Trans:   &Pos{X: 515.5, Y: -12.25, Z: 712},
		Rot:     &Orient{Q1: 0.5, Q2: 0, Q3: 0.866025, Q4: 0},
		RobConf: &ConfData{Cf1: 0, Cf4: -1, Cf6: 0, Cfx: 1},
		ExtAx:   &ExtJoint{EaxA: UnusedAxis, EaxB: UnusedAxis, EaxC: UnusedAxis, EaxD: UnusedAxis, EaxE: UnusedAxis, EaxF: UnusedAxis},
	}
}

func sampleTool() *ToolData {
	return &ToolData{
		RobHold: true,
		TFrame:  &Pose{Trans: &Pos{Z: 150}, Rot: &Orient{Q1: 1}},
		TLoad:   &LoadData{Mass: 1.5, Cog: &Pos{Z: 75}, Aom: &Orient{Q1: 1}, Ix: 0.01, Iy: 0.01, Iz: 0.001},
	}
}

func TestRoundTrip(t *testing.T) {
	b := Bool(true)
	n := Num(3.14)
	d := Dnum(-123456789.125)
	s := String(`say "hi", C:\temp`)

	cases := []struct {
		name  string
		value Value
		fresh func() Value
	}{
		{"bool", &b, func() Value { return new(Bool) }},
		{"num", &n, func() Value { return new(Num) }},
		{"dnum", &d, func() Value { return new(Dnum) }},
		{"string", &s, func() Value { return new(String) }},
		{"robjoint", &RobJoint{Rax1: 10, Rax2: -20.5, Rax3: 0.001, Rax4: 90, Rax5: 1e-7, Rax6: 180}, func() Value { return new(RobJoint) }},
		{"jointtarget", &JointTarget{RobAx: &RobJoint{Rax1: 1}, ExtAx: &ExtJoint{EaxA: UnusedAxis}}, func() Value { return new(JointTarget) }},
		{"robtarget", sampleRobTarget(), func() Value { return new(RobTarget) }},
		{"tooldata", sampleTool(), func() Value { return new(ToolData) }},
		{"wobjdata", &WObjData{UFProg: true, UFMec: "", UFrame: &Pose{Trans: &Pos{X: 100}, Rot: &Orient{Q1: 1}}, OFrame: &Pose{Trans: &Pos{}, Rot: &Orient{Q1: 1}}}, func() Value { return new(WObjData) }},
		{"speeddata", &SpeedData{VTcp: 1000, VOri: 500, VLeax: 5000, VReax: 1000}, func() Value { return new(SpeedData) }},
		{"zonedata", &ZoneData{PZoneTCP: 10, PZoneOri: 15, PZoneEax: 15, ZoneOri: 1.5, ZoneLeax: 15, ZoneReax: 1.5}, func() Value { return new(ZoneData) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := Marshal(tc.value)
			require.NoError(t, err, "Ошибка кодирования %s", tc.name)

			got := tc.fresh()
			require.NoError(t, Unmarshal(text, got), "Ошибка разбора %q", text)
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestNumFormatting(t *testing.T) {
	cases := map[float64]string{
		3.14:        "3.14",
		123432:      "123432",
		-1e10:       "-10000000000",
		0.5:         "0.5",
		1e-7:        "1e-07",
		9e9:         "9000000000",
		0:           "0",
		-0.25:       "-0.25",
		1234.000125: "1234.000125",
	}
	for in, want := range cases {
		n := Num(in)
		got, err := Marshal(&n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "Неверная запись числа %v", in)
	}
}

func TestNumRejectsNonFinite(t *testing.T) {
	n := Num(math.NaN())
	_, err := Marshal(&n)
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)

	err = Unmarshal("NaN", &n)
	assert.True(t, IsBadScalar(err))
}

func TestDecodeControllerText(t *testing.T) {
	var rt RobTarget
	text := "[[515.5,-12.25,712],[0.5,0,0.866025,0],[0,-1,0,1],[9E+09,9E+09,9E+09,9E+09,9E+09,9E+09]]"
	require.NoError(t, Unmarshal(text, &rt))
	assert.Equal(t, sampleRobTarget(), &rt)

	var b Bool
	require.NoError(t, Unmarshal(" true ", &b))
	assert.True(t, bool(b))
}

func TestArityMismatchLeavesTargetUntouched(t *testing.T) {
	orig := sampleRobTarget()
	target := sampleRobTarget()

	err := Unmarshal("[[1,2,3],[1,0,0,0],[0,0,0,0]]", target)
	require.Error(t, err)
	assert.True(t, IsArityMismatch(err))
	assert.Equal(t, orig, target, "Значение не должно изменяться при ошибке")

	err = Unmarshal("[[1,2],[1,0,0,0],[0,0,0,0],[9E9,9E9,9E9,9E9,9E9,9E9]]", target)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ArityMismatch, de.Kind)
	assert.Equal(t, "trans", de.Path)
	assert.Equal(t, orig, target)
}

func TestBadScalar(t *testing.T) {
	var p Pos
	err := Unmarshal("[1,abc,3]", &p)
	require.Error(t, err)
	assert.True(t, IsBadScalar(err))
	assert.Equal(t, Pos{}, p)

	var tool ToolData
	err = Unmarshal("[MAYBE,[[0,0,0],[1,0,0,0]],[1,[0,0,0],[1,0,0,0],0,0,0]]", &tool)
	assert.True(t, IsBadScalar(err))

	var s String
	assert.True(t, IsBadScalar(Unmarshal("unquoted", &s)))
}

func TestMalformedText(t *testing.T) {
	var p Pos
	for _, text := range []string{"1,2,3", "[1,2,3", "[[1,2],3", `["abc,2,3]`} {
		err := Unmarshal(text, &p)
		var de *DecodeError
		require.ErrorAs(t, err, &de, "Текст %q", text)
		assert.Equal(t, Malformed, de.Kind, "Текст %q", text)
	}
}

func TestIncompleteRecord(t *testing.T) {
	rt := sampleRobTarget()
	rt.ExtAx = nil

	_, err := Marshal(rt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteRecord)
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "extax", ee.Path)

	_, err = Marshal((*Pos)(nil))
	assert.ErrorIs(t, err, ErrIncompleteRecord)
}

func TestStringEscaping(t *testing.T) {
	s := String(`a "quoted", [bracketed] \ value`)
	text, err := Marshal(&s)
	require.NoError(t, err)
	assert.Equal(t, `"a ""quoted"", [bracketed] \\ value"`, text)

	wobj := &WObjData{UFMec: `ROB_1,"x"`, UFrame: &Pose{Trans: &Pos{}, Rot: &Orient{Q1: 1}}, OFrame: &Pose{Trans: &Pos{}, Rot: &Orient{Q1: 1}}}
	text, err = Marshal(wobj)
	require.NoError(t, err)

	var got WObjData
	require.NoError(t, Unmarshal(text, &got))
	assert.Equal(t, wobj, &got)
}

func TestCustomRecord(t *testing.T) {
	reg := NewRegistry()
	schema := NewRecord("mytarget").
		Add("name", new(String)).
		Add("speed", new(Num)).
		Add("pos", new(Pos)).
		Add("active", new(Bool))
	require.NoError(t, reg.Register(schema))

	v, err := reg.Decode(`["pick",250,[1,2,3],TRUE]`, "MyTarget")
	require.NoError(t, err)
	rec, ok := v.(*Record)
	require.True(t, ok)

	name, ok := rec.Get("name")
	require.True(t, ok)
	assert.Equal(t, String("pick"), *name.(*String))
	pos, _ := rec.Get("pos")
	assert.Equal(t, &Pos{X: 1, Y: 2, Z: 3}, pos)

	text, err := Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `["pick",250,[1,2,3],TRUE]`, text)

	before, _ := Marshal(rec)
	err = rec.UnmarshalRAPID(`["place",1,[1,2,3]]`)
	assert.True(t, IsArityMismatch(err))
	after, _ := Marshal(rec)
	assert.Equal(t, before, after)

	err = rec.UnmarshalRAPID(`["place",1,[1,2,x],TRUE]`)
	assert.True(t, IsBadScalar(err))
	after, _ = Marshal(rec)
	assert.Equal(t, before, after)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.New("unknowntype")
	assert.True(t, errors.Is(err, ErrUnknownType))

	assert.Error(t, reg.Register(NewRecord("robtarget")))
	assert.Error(t, reg.Register(NewRecord("")))
	assert.Error(t, reg.Register(NewRecord("broken").Add("x", nil)))

	v, err := Decode("[1,2,3]", "POS")
	require.NoError(t, err)
	assert.Equal(t, &Pos{X: 1, Y: 2, Z: 3}, v)

	_, err = Decode(`["a"]`, "mytarget")
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.True(t, SameType("RobTarget", " robtarget"))
}

func TestEmptyAndNilTargets(t *testing.T) {
	var p *Pos
	err := Unmarshal("[1,2,3]", p)
	var de *DecodeError
	require.ErrorAs(t, err, &de)

	err = Unmarshal("[]", new(Pos))
	assert.True(t, IsArityMismatch(err))
}
