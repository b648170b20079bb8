package rws

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

const (
	testRealm  = "validusers@robotics.com"
	testNonce  = "dcd98b7102dd2f0e8b11d0f600bfb0c093"
	testOpaque = "799d5"
	sessionKey = "-http-session-"
)

// fakeController имитирует контроллер IRC5/OmniCore: аутентификацию, cookie сессии
// и подмножество ресурсов RWS с XHTML ответами.
type fakeController struct {
	t   *testing.T
	srv *httptest.Server

	digest   bool
	username string
	password string

	mu       sync.Mutex
	hits     map[string]int
	failNext map[string]int
	reject   bool
	sessions map[string]bool
	issued   int
	lastBody map[string]string

	opMode      string
	ctrlState   string
	speedRatio  int
	execState   string
	symbols     map[string]fakeSymbol
	signals     map[string]string
	files       map[string]string
	units       map[string]bool
	rmmpPending bool
	rmmpGranted bool
	rmmpPolls   int
	grantAfter  int
	denyRMMP    bool
	revoked     bool

	subs       map[string][]string
	subSeq     int
	wsProtocol string
	events     chan string
	stop       chan struct{}
}

type fakeSymbol struct {
	typ   string
	value string
}

func newFakeController(t *testing.T, tls bool) *fakeController {
	t.Helper()
	fc := &fakeController{
		t:          t,
		digest:     !tls,
		username:   DefaultUsername,
		password:   DefaultPassword,
		hits:       make(map[string]int),
		failNext:   make(map[string]int),
		sessions:   make(map[string]bool),
		lastBody:   make(map[string]string),
		opMode:     "AUTO",
		ctrlState:  "motoron",
		speedRatio: 100,
		execState:  "stopped",
		symbols: map[string]fakeSymbol{
			"T_ROB1/user/reg1":    {typ: "num", value: "0"},
			"T_ROB1/user/mytext":  {typ: "string", value: `"hello"`},
			"T_ROB1/user/target1": {typ: "robtarget", value: "[[600,0,800],[1,0,0,0],[0,0,0,0],[9E+09,9E+09,9E+09,9E+09,9E+09,9E+09]]"},
			"T_ROB1/user/tool1":   {typ: "tooldata", value: "[TRUE,[[0,0,100],[1,0,0,0]],[1.5,[0,0,50],[1,0,0,0],0,0,0]]"},
			"T_ROB1/user/point1":  {typ: "mypoint", value: `[1,2,"p"]`},
		},
		signals: map[string]string{"Local/DRV_1/DO1": "0", "Local/DRV_1/DI1": "1"},
		files:   map[string]string{"$home/hello.txt": "hello controller"},
		units:   map[string]bool{"ROB_1": true},
		subs:    make(map[string][]string),
		events:  make(chan string, 16),
		stop:    make(chan struct{}),
	}
	if tls {
		fc.srv = httptest.NewTLSServer(http.HandlerFunc(fc.serve))
	} else {
		fc.srv = httptest.NewServer(http.HandlerFunc(fc.serve))
	}
	t.Cleanup(fc.srv.Close)
	t.Cleanup(func() { close(fc.stop) })
	return fc
}

// connect открывает сессию к фейковому контроллеру. Для TLS используется транспорт тестового сервера.
func (fc *fakeController) connect(t *testing.T) *Session {
	t.Helper()
	opts := Options{Host: fc.srv.URL, Version: Version1, Timeout: 5 * time.Second}
	if !fc.digest {
		opts.Version = Version2
		opts.Transport = fc.srv.Client().Transport
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Connect(ctx, opts, nil)
	require.NoError(t, err, "Не удалось подключиться к фейковому контроллеру")
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func (fc *fakeController) hitCount(path string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.hits[path]
}

func (fc *fakeController) failOnce(path string, code int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.failNext[path] = code
}

func (fc *fakeController) set(fn func()) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fn()
}

func (fc *fakeController) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/poll/") {
		fc.serveEvents(w, r)
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	fc.hits[r.URL.Path]++
	fc.lastBody[r.URL.Path] = string(body)

	if fc.reject {
		fc.unauthorized(w)
		return
	}
	if code, ok := fc.failNext[r.URL.Path]; ok {
		delete(fc.failNext, r.URL.Path)
		if code == http.StatusUnauthorized {
			fc.unauthorized(w)
			return
		}
		w.WriteHeader(code)
		return
	}
	if !fc.authorized(w, r) {
		return
	}

	form, _ := url.ParseQuery(string(body))
	fc.route(w, r, form)
}

// authorized принимает действующую cookie сессии или верные учетные данные.
func (fc *fakeController) authorized(w http.ResponseWriter, r *http.Request) bool {
	if c, err := r.Cookie(sessionKey); err == nil && fc.sessions[c.Value] {
		return true
	}

	auth := r.Header.Get("Authorization")
	ok := false
	if fc.digest {
		ok = fc.validDigest(r.Method, auth)
	} else {
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(fc.username+":"+fc.password))
		ok = auth == expected
	}
	if !ok {
		fc.unauthorized(w)
		return false
	}

	fc.issued++
	id := fmt.Sprintf("session-%d", fc.issued)
	fc.sessions[id] = true
	http.SetCookie(w, &http.Cookie{Name: sessionKey, Value: id, Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "ABBCX", Value: fmt.Sprint(fc.issued), Path: "/"})
	return true
}

// serveEvents открывает канал событий группы подписки. Доступ только по cookie сессии.
func (fc *fakeController) serveEvents(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/poll/")

	fc.mu.Lock()
	fc.hits[r.URL.Path]++
	c, err := r.Cookie(sessionKey)
	authorized := err == nil && fc.sessions[c.Value]
	_, exists := fc.subs[id]
	fc.wsProtocol = r.Header.Get("Sec-WebSocket-Protocol")
	fc.mu.Unlock()

	if !authorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	websocket.Server{Handler: func(ws *websocket.Conn) {
		defer ws.Close()
		for {
			select {
			case msg := <-fc.events:
				if err := websocket.Message.Send(ws, msg); err != nil {
					return
				}
			case <-fc.stop:
				return
			}
		}
	}}.ServeHTTP(w, r)
}

func (fc *fakeController) eventsProtocol() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.wsProtocol
}

func (fc *fakeController) subscription(id string) ([]string, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	uris, ok := fc.subs[id]
	return uris, ok
}

// unauthorized отвечает 401. В RWS 1.0 контроллер всегда прикладывает вызов digest.
func (fc *fakeController) unauthorized(w http.ResponseWriter) {
	if fc.digest {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(
			`Digest realm=%q, qop="auth", nonce=%q, opaque=%q`, testRealm, testNonce, testOpaque))
	}
	w.WriteHeader(http.StatusUnauthorized)
}

var digestParam = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^,\s]*))`)

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (fc *fakeController) validDigest(method, header string) bool {
	rest, ok := strings.CutPrefix(header, "Digest ")
	if !ok {
		return false
	}
	p := map[string]string{}
	for _, m := range digestParam.FindAllStringSubmatch(rest, -1) {
		p[m[1]] = m[2] + m[3]
	}
	if p["username"] != fc.username || p["nonce"] != testNonce {
		return false
	}
	ha1 := md5hex(fc.username + ":" + testRealm + ":" + fc.password)
	ha2 := md5hex(method + ":" + p["uri"])
	var expected string
	if p["qop"] == "" {
		expected = md5hex(ha1 + ":" + p["nonce"] + ":" + ha2)
	} else {
		expected = md5hex(strings.Join([]string{ha1, p["nonce"], p["nc"], p["cnonce"], p["qop"], ha2}, ":"))
	}
	return p["response"] == expected
}

func xhtml(items ...string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<html xmlns="http://www.w3.org/1999/xhtml"><head><title>fake</title></head>` +
		`<body><div class="state"><ul>` + strings.Join(items, "") + `</ul></div></body></html>`
}

func li(class, title string, spans ...string) string {
	return fmt.Sprintf(`<li class=%q title=%q>%s</li>`, class, title, strings.Join(spans, ""))
}

func span(class, text string) string {
	return fmt.Sprintf(`<span class=%q>%s</span>`, class, text)
}

// instance оборачивает атрибуты в <ul>, иначе вложенные <li> закрыли бы внешний.
func instance(title string, attrs ...string) string {
	return fmt.Sprintf(`<li class="cfg-dt-instance-li" title=%q><ul>%s</ul></li>`, title, strings.Join(attrs, ""))
}

func cfgAttr(name, value string) string {
	return li("cfg-ia-t-li", name, span("value", value))
}

func write(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/xhtml+xml")
	_, _ = io.WriteString(w, body)
}

func (fc *fakeController) route(w http.ResponseWriter, r *http.Request, form url.Values) {
	path := r.URL.Path
	query := r.URL.Query()
	post := r.Method == http.MethodPost

	switch {
	case path == "/rw/system":
		write(w, xhtml(
			li("sys-system-li", "system", span("name", "FakeSystem"), span("rwversionname", "6.15.01.00")),
			li("sys-option-li", "0", span("option", "616-1 PC Interface")),
			li("sys-option-li", "1", span("option", "623-1 Multitasking")),
		))
	case path == "/ctrl":
		write(w, xhtml(li("ctrl-identity-info-li", "", span("ctrl-type", "Virtual"))))
	case path == "/logout":
		write(w, xhtml())
	case path == "/rw/panel/opmode":
		write(w, xhtml(li("pnl-opmode", "opmode", span("opmode", fc.opMode))))
	case path == "/rw/panel/ctrlstate" || path == "/rw/panel/ctrl-state":
		if post {
			fc.ctrlState = form.Get("ctrl-state")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		write(w, xhtml(li("pnl-ctrlstate", "ctrlstate", span("ctrlstate", fc.ctrlState))))
	case path == "/rw/panel/speedratio":
		if post {
			fmt.Sscan(form.Get("speed-ratio"), &fc.speedRatio)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		write(w, xhtml(li("pnl-speedratio", "speedratio", span("speedratio", fmt.Sprint(fc.speedRatio)))))
	case path == "/rw/rapid/execution":
		if post {
			switch query.Get("action") {
			case "start":
				fc.execState = "running"
			case "stop":
				fc.execState = "stopped"
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		write(w, xhtml(li("rap-execution", "execution", span("ctrlexecstate", fc.execState), span("cycle", "forever"))))
	case path == "/rw/rapid/tasks":
		write(w, xhtml(
			li("rap-task-li", "T_ROB1", span("name", "T_ROB1"), span("type", "norm"),
				span("excstate", "read"), span("active", "On"), span("motiontask", "TRUE")),
			li("rap-task-li", "T_BG", span("name", "T_BG"), span("type", "norm"),
				span("excstate", "star"), span("active", "Off"), span("motiontask", "FALSE")),
		))
	case path == "/rw/rapid/modules":
		if query.Get("task") != "T_ROB1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		write(w, xhtml(
			li("rap-module-info-li", "BASE", span("name", "BASE"), span("type", "SysMod")),
			li("rap-module-info-li", "user", span("name", "user"), span("type", "ProgMod")),
		))
	case strings.HasPrefix(path, "/rw/rapid/symbol/data/RAPID/"):
		fc.symbolData(w, strings.TrimPrefix(path, "/rw/rapid/symbol/data/RAPID/"), post, form)
	case strings.HasPrefix(path, "/rw/rapid/symbol/properties/RAPID/"):
		sym, ok := fc.symbols[strings.TrimPrefix(path, "/rw/rapid/symbol/properties/RAPID/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		write(w, xhtml(li("rap-sympropvar", "", span("symtyp", "per"), span("dattyp", sym.typ), span("dim", ""))))
	case strings.HasPrefix(path, "/rw/cfg/"):
		fc.cfg(w, strings.TrimPrefix(path, "/rw/cfg/"))
	case strings.HasPrefix(path, "/rw/motionsystem/mechunits/"):
		fc.mechUnit(w, strings.TrimPrefix(path, "/rw/motionsystem/mechunits/"), query)
	case path == "/users":
		w.WriteHeader(http.StatusCreated)
	case path == "/users/rmmp":
		fc.rmmpPending = true
		fc.rmmpPolls = 0
		w.WriteHeader(http.StatusAccepted)
	case path == "/users/rmmp/poll":
		fc.rmmpPoll(w)
	case strings.HasPrefix(path, "/rw/mastership"):
		w.WriteHeader(http.StatusNoContent)
	case path == "/rw/iosystem/signals":
		var items []string
		for _, name := range []string{"Local/DRV_1/DI1", "Local/DRV_1/DO1"} {
			typ := "DI"
			if strings.HasSuffix(name, "DO1") {
				typ = "DO"
			}
			items = append(items, li("ios-signal-li", name, span("name", name), span("type", typ), span("lvalue", fc.signals[name])))
		}
		write(w, xhtml(items...))
	case strings.HasPrefix(path, "/rw/iosystem/signals/"):
		name := strings.TrimPrefix(path, "/rw/iosystem/signals/")
		if _, ok := fc.signals[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if post {
			if !strings.HasPrefix(name, "Local/DRV_1/DO") {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			fc.signals[name] = form.Get("lvalue")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		write(w, xhtml(li("ios-signal", name, span("name", name), span("type", "DO"), span("lvalue", fc.signals[name]))))
	case path == "/rw/elog":
		if query.Get("resource") != "count" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		write(w, xhtml(
			li("elog-domain-li", "0", span("domain-name", "Common"), span("numevts", "2")),
			li("elog-domain-li", "1", span("domain-name", "Operational"), span("numevts", "1")),
		))
	case path == "/rw/elog/0":
		messages := []string{
			li("elog-message-li", "/rw/elog/0/42",
				span("msgtype", "3"), span("code", "50204"), span("src-name", "T_ROB1"),
				span("tstamp", "2026-10-15 T 08:30:00"), span("title", "Motion supervision"),
				span("desc", "Motion supervision triggered."), span("argc", "2"),
				`<span class="arg1" type="LONG">1</span>`, `<span class="arg2" type="STRING">ROB_1</span>`),
			li("elog-message-li", "/rw/elog/0/41",
				span("msgtype", "1"), span("code", "10011"), span("tstamp", "2026-10-15 T 08:29:00"),
				span("title", "Motors ON state"), span("argc", "0")),
		}
		if query.Get("limit") == "1" {
			messages = messages[:1]
		}
		write(w, xhtml(messages...))
	case path == "/subscription" && post:
		var uris []string
		for _, key := range form["resources"] {
			uris = append(uris, form.Get(key)+"|"+form.Get(key+"-p"))
		}
		if len(uris) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fc.subSeq++
		id := fmt.Sprintf("sub%d", fc.subSeq)
		fc.subs[id] = uris
		w.Header().Set("Location", fc.srv.URL+"/poll/"+id)
		w.WriteHeader(http.StatusCreated)
	case strings.HasPrefix(path, "/subscription/"):
		id := strings.TrimPrefix(path, "/subscription/")
		if _, ok := fc.subs[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			var uris []string
			for _, key := range form["resources"] {
				uris = append(uris, form.Get(key)+"|"+form.Get(key+"-p"))
			}
			fc.subs[id] = uris
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			delete(fc.subs, id)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(path, "/fileservice/"):
		fc.file(w, r, strings.TrimPrefix(path, "/fileservice/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeController) symbolData(w http.ResponseWriter, key string, post bool, form url.Values) {
	sym, ok := fc.symbols[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if post {
		if !fc.rmmpGranted {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		sym.value = form.Get("value")
		fc.symbols[key] = sym
		w.WriteHeader(http.StatusNoContent)
		return
	}
	write(w, xhtml(li("rap-data", "", span("value", sym.value))))
}

func (fc *fakeController) rmmpPoll(w http.ResponseWriter) {
	privilege, status := "none", "PENDING"
	switch {
	case fc.revoked:
		status = "REVOKED"
		fc.rmmpGranted = false
	case fc.rmmpGranted:
		privilege, status = "modify", "GRANTED"
	case fc.rmmpPending && fc.denyRMMP:
		status = "DENIED"
		fc.rmmpPending = false
	case fc.rmmpPending:
		fc.rmmpPolls++
		if fc.rmmpPolls > fc.grantAfter {
			fc.rmmpGranted = true
			fc.rmmpPending = false
			privilege, status = "modify", "GRANTED"
		}
	default:
		status = ""
	}
	write(w, xhtml(li("rmmp-poll-li", "poll",
		span("privilege", privilege),
		span("status", status),
		span("userid", "12"),
		span("alias", DefaultUsername),
		span("location", DefaultLocation),
		span("application", DefaultApplication),
	)))
}

func (fc *fakeController) cfg(w http.ResponseWriter, rest string) {
	switch rest {
	case "moc/arm/instances":
		write(w, xhtml(
			instance("rob1_1", cfgAttr("name", "rob1_1"), cfgAttr("lower_joint_bound", "-2.87979"), cfgAttr("upper_joint_bound", "2.87979")),
			instance("rob1_2", cfgAttr("name", "rob1_2"), cfgAttr("lower_joint_bound", "-1.91986"), cfgAttr("upper_joint_bound", "1.91986")),
		))
	case "moc/joint/instances":
		write(w, xhtml(
			instance("rob1_1", cfgAttr("name", "rob1_1"), cfgAttr("logical_axis", "1"),
				cfgAttr("kinematic_axis_number", "1"), cfgAttr("use_arm", "rob1_1"), cfgAttr("use_transmission", "r1_1")),
		))
	case "moc/mechanical_unit/instances":
		write(w, xhtml(
			instance("ROB_1", cfgAttr("name", "ROB_1"), cfgAttr("use_robot", "ROB_1")),
			instance("TRACK", cfgAttr("name", "TRACK"), cfgAttr("use_single_1", "TRACK_S")),
		))
	case "sys/mechanical_unit_group/instances":
		write(w, xhtml(
			instance("rob_1", cfgAttr("Name", "rob_1"), cfgAttr("Robot", "ROB_1"),
				cfgAttr("MechanicalUnit_1", "TRACK"), cfgAttr("MechanicalUnit_2", "POS")),
		))
	case "sys/present_options/instances":
		write(w, xhtml(
			instance("616-1", cfgAttr("name", "616-1"), cfgAttr("desc", "PC Interface")),
		))
	case "moc/robot/instances":
		write(w, xhtml(
			instance("ROB_1", cfgAttr("name", "ROB_1"), cfgAttr("use_robot_type", "ROB1_1200"),
				cfgAttr("use_joint_0", "rob1_1"), cfgAttr("use_joint_1", "rob1_2"),
				cfgAttr("base_frame_pos_x", "0.5"), cfgAttr("base_frame_pos_y", "0"), cfgAttr("base_frame_pos_z", "0.25"),
				cfgAttr("base_frame_orient_u0", "1"), cfgAttr("base_frame_orient_u1", "0"),
				cfgAttr("base_frame_orient_u2", "0"), cfgAttr("base_frame_orient_u3", "0")),
		))
	case "moc/single/instances":
		write(w, xhtml(
			instance("TRACK_S", cfgAttr("name", "TRACK_S"), cfgAttr("use_single_type", "TRACK_T"),
				cfgAttr("use_joint", "track_j"), cfgAttr("base_frame_coordinated", "ROB_1")),
		))
	case "moc/transmission/instances":
		write(w, xhtml(
			instance("r1_1", cfgAttr("rotating_move", "true")),
			instance("track_t", cfgAttr("rotating_move", "false")),
		))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeController) mechUnit(w http.ResponseWriter, rest string, query url.Values) {
	unit, suffix, _ := strings.Cut(rest, "/")
	if !fc.units[unit] {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch suffix {
	case "":
		switch query.Get("resource") {
		case "static":
			write(w, xhtml(li("ms-mechunit", unit,
				span("task-name", "T_ROB1"), span("is-integrated-unit", ""), span("has-integrated-unit", "TRACK"),
				span("type", "TCPRobot"), span("axes", "6"), span("axes-total", "7"))))
		case "dynamic":
			write(w, xhtml(li("ms-mechunit", unit,
				span("tool-name", "tool0"), span("wobj-name", "wobj0"), span("payload-name", "load0"),
				span("total-payload-name", "load0"), span("status", "Activated"), span("mode", "Activated"),
				span("jog-mode", "Linear"), span("coord-system", "Base"))))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	case "jointtarget":
		write(w, xhtml(li("ms-jointtarget", "", span("rax_1", "0"), span("rax_2", "-10.5"), span("rax_3", "20"),
			span("rax_4", "0"), span("rax_5", "30.25"), span("rax_6", "0"),
			span("eax_a", "150"), span("eax_b", "9E+09"), span("eax_c", "9E+09"),
			span("eax_d", "9E+09"), span("eax_e", "9E+09"), span("eax_f", "9E+09"))))
	case "robtarget":
		x := "600"
		if query.Get("coordinate") == "World" {
			x = "1100"
		}
		write(w, xhtml(li("ms-robtargets", "", span("x", x), span("y", "0"), span("z", "800"),
			span("q1", "1"), span("q2", "0"), span("q3", "0"), span("q4", "0"),
			span("cf1", "0"), span("cf4", "-1"), span("cf6", "0"), span("cfx", "1"),
			span("eax_a", "150"), span("eax_b", "9E+09"), span("eax_c", "9E+09"),
			span("eax_d", "9E+09"), span("eax_e", "9E+09"), span("eax_f", "9E+09"))))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeController) file(w http.ResponseWriter, r *http.Request, key string) {
	switch r.Method {
	case http.MethodGet:
		content, ok := fc.files[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, content)
	case http.MethodPut:
		_, existed := fc.files[key]
		fc.files[key] = fc.lastBody[r.URL.Path]
		if existed {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		if _, ok := fc.files[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(fc.files, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (fc *fakeController) body(path string) string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.lastBody[path]
}

func (fc *fakeController) issuedSessions() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.issued
}
