package rws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/models"
	"github.com/iwtcode/abbAdapter/rapid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Значения по умолчанию, которые использует контроллер для внешних клиентов.
const (
	DefaultUsername    = "Default User"
	DefaultPassword    = "robotics"
	DefaultApplication = "ExternalApplication"
	DefaultLocation    = "ExternalLocation"
	DefaultTimeout     = 10 * time.Second

	logCapacity = 20
)

// Options задает параметры подключения к контроллеру.
type Options struct {
	Host        string
	Port        uint16 // 0 означает порт по умолчанию для версии
	Username    string
	Password    string
	Version     string // "1.0" или "2.0"
	Timeout     time.Duration
	InsecureTLS bool
	Application string
	Location    string

	// Transport заменяет сетевой транспорт, поверх него добавляется аутентификация.
	Transport http.RoundTripper
}

func (o *Options) setDefaults() {
	if o.Username == "" {
		o.Username = DefaultUsername
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Application == "" {
		o.Application = DefaultApplication
	}
	if o.Location == "" {
		o.Location = DefaultLocation
	}
}

// Session - одна логическая сессия RWS: базовый адрес, учетные данные, cookie,
// журнал последних обменов и состояние привилегии RMMP.
type Session struct {
	id       string
	baseURL  *url.URL
	dialect  Dialect
	opts     Options
	client   *http.Client
	logger   *logrus.Entry
	registry *rapid.Registry

	mu     sync.Mutex
	ring   []models.ExchangeLog
	next   int
	rmmp   models.RMMPState
	closed bool

	// rmmpMu упорядочивает запрос и опрос RMMP между собой.
	rmmpMu sync.Mutex
}

// Connect создает сессию и проверяет доступность контроллера запросом GET /rw/system.
func Connect(ctx context.Context, opts Options, logger *logrus.Logger) (*Session, error) {
	opts.setDefaults()
	if strings.TrimSpace(opts.Host) == "" {
		return nil, fmt.Errorf("%w: host is empty", apperrors.ErrConnection)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	dialect := GetDialect(opts.Version)
	base, err := parseBaseURL(dialect, opts.Host, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}

	jar, err := newJar()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		baseURL: base,
		dialect: dialect,
		opts:    opts,
		client: &http.Client{
			Transport: dialect.newAuthTransport(opts.Transport, opts.Username, opts.Password, opts.InsecureTLS),
			Jar:       jar,
			Timeout:   opts.Timeout,
		},
		logger: logger.WithFields(logrus.Fields{
			"session": id,
			"host":    base.Host,
		}),
		registry: rapid.NewRegistry(),
		rmmp:     models.RMMPState{Phase: models.RMMPObserver, Privilege: "none"},
	}

	if _, err := s.get(ctx, resourceSystem); err != nil {
		s.client.CloseIdleConnections()
		return nil, fmt.Errorf("connect to %s: %w", base.Host, err)
	}

	s.logger.WithField("rws", dialect.Version).Info("Сессия RWS установлена")
	return s, nil
}

func parseBaseURL(d Dialect, host string, port uint16) (*url.URL, error) {
	h := strings.TrimSpace(host)
	if strings.Contains(h, "://") {
		u, err := url.Parse(h)
		if err != nil {
			return nil, fmt.Errorf("invalid host %q: %w", host, err)
		}
		u.Path = strings.TrimRight(u.Path, "/")
		return u, nil
	}
	if _, _, err := net.SplitHostPort(h); err != nil {
		if port == 0 {
			port = d.DefaultPort
		}
		h = net.JoinHostPort(h, strconv.Itoa(int(port)))
	}
	return &url.URL{Scheme: d.Scheme, Host: h}, nil
}

func newJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// ID возвращает идентификатор сессии, который попадает в поля журнала.
func (s *Session) ID() string { return s.id }

// Host возвращает адрес контроллера.
func (s *Session) Host() string { return s.baseURL.Host }

// Dialect возвращает параметры протокола сессии.
func (s *Session) Dialect() Dialect { return s.dialect }

// Registry возвращает реестр типов RAPID этой сессии.
func (s *Session) Registry() *rapid.Registry { return s.registry }

// Logger возвращает журнал сессии.
func (s *Session) Logger() *logrus.Entry { return s.logger }

func acceptedStatus(method string, code int) bool {
	switch method {
	case http.MethodGet:
		return code == http.StatusOK
	case http.MethodPost:
		return code == http.StatusOK || code == http.StatusCreated ||
			code == http.StatusAccepted || code == http.StatusNoContent
	case http.MethodPut:
		return code == http.StatusOK || code == http.StatusCreated
	case http.MethodDelete:
		return code == http.StatusOK || code == http.StatusNoContent
	}
	return false
}

// Do выполняет запрос к контроллеру. Ответ 401 приводит к одной повторной
// аутентификации со сбросом cookie. Других повторов нет.
func (s *Session) Do(ctx context.Context, method, uri, body string) (string, error) {
	contentType := s.dialect.ContentType
	if method == http.MethodPut {
		contentType = "text/plain; charset=utf-8"
	}
	resp, _, err := s.exchange(ctx, method, uri, body, contentType)
	return resp, err
}

// exchange выполняет запрос и возвращает тело и заголовки ответа.
//
// В RWS 1.0 повторную аутентификацию выполняет транспорт digest: на 401 с новым
// вызовом он сам отправляет запрос еще раз. Поэтому 401, дошедший сюда, уже
// второй, и запрос не повторяется, сбрасываются только cookie.
func (s *Session) exchange(ctx context.Context, method, uri, body, contentType string) (string, http.Header, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", nil, fmt.Errorf("%w: session is closed", apperrors.ErrConnection)
	}

	resp, header, err := s.roundTrip(ctx, method, uri, body, contentType)
	if err == nil || !errors.Is(err, apperrors.ErrAuth) {
		return resp, header, err
	}

	if jerr := s.resetCookies(); jerr != nil {
		return "", nil, jerr
	}
	if s.dialect.Digest {
		s.logger.WithField("uri", uri).Warn("Контроллер отклонил повторную аутентификацию digest")
		return "", nil, err
	}

	s.logger.WithField("uri", uri).Warn("Контроллер вернул 401, повторная аутентификация")
	return s.roundTrip(ctx, method, uri, body, contentType)
}

func (s *Session) resetCookies() error {
	jar, err := newJar()
	if err != nil {
		return err
	}
	// Клиент заменяется целиком: запросы в других горутинах читают Jar своей копии.
	s.mu.Lock()
	c := *s.client
	c.Jar = jar
	s.client = &c
	s.mu.Unlock()
	return nil
}

func (s *Session) roundTrip(ctx context.Context, method, uri, body, contentType string) (string, http.Header, error) {
	target := s.baseURL.String() + uri

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", nil, fmt.Errorf("build request %s %s: %w", method, uri, err)
	}
	req.Header.Set("Accept", s.dialect.Accept)
	if body != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	entry := models.ExchangeLog{Time: start, Method: method, URI: uri, Request: body}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	resp, err := client.Do(req)
	if err != nil {
		entry.Duration = time.Since(start)
		entry.Error = err.Error()
		s.record(entry)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, fmt.Errorf("%s %s: %w", method, uri, ctxErr)
		}
		s.logger.WithError(err).WithField("uri", uri).Error("Контроллер недоступен")
		return "", nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrConnection, method, uri, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	entry.Duration = time.Since(start)
	entry.StatusCode = resp.StatusCode
	entry.Response = string(data)
	if err != nil {
		entry.Error = err.Error()
		s.record(entry)
		return "", nil, fmt.Errorf("%w: read %s %s: %v", apperrors.ErrConnection, method, uri, err)
	}
	s.record(entry)

	s.logger.WithFields(logrus.Fields{
		"method":   method,
		"uri":      uri,
		"status":   resp.StatusCode,
		"duration": entry.Duration,
	}).Debug("Обмен с контроллером")

	if !acceptedStatus(method, resp.StatusCode) {
		return "", resp.Header, apperrors.NewStatusError(resp.StatusCode, method, uri, string(data))
	}
	return string(data), resp.Header, nil
}

func (s *Session) get(ctx context.Context, uri string) (string, error) {
	return s.Do(ctx, http.MethodGet, uri, "")
}

// cookies возвращает cookie сессии для запросов вне http.Client (WebSocket).
func (s *Session) cookies() []*http.Cookie {
	s.mu.Lock()
	jar := s.client.Jar
	s.mu.Unlock()
	return jar.Cookies(s.baseURL)
}

func (s *Session) post(ctx context.Context, uri string, form url.Values) (string, error) {
	body := ""
	if form != nil {
		body = form.Encode()
	}
	return s.Do(ctx, http.MethodPost, uri, body)
}

// writeError оборачивает ошибку записи. Ответ контроллера с кодом ошибки (кроме 401)
// означает отказ и помечается ErrWriteRejected, исходная ошибка остается в цепочке.
func (s *Session) writeError(target string, err error) error {
	var se *apperrors.StatusError
	if errors.As(err, &se) && se.Code != http.StatusUnauthorized {
		s.logger.WithField("target", target).WithField("status", se.Code).Warn("Контроллер отклонил запись")
		return fmt.Errorf("write %s: %w: %w", target, apperrors.ErrWriteRejected, err)
	}
	return fmt.Errorf("write %s: %w", target, err)
}

func (s *Session) record(e models.ExchangeLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ring) < logCapacity {
		s.ring = append(s.ring, e)
		return
	}
	s.ring[s.next] = e
	s.next = (s.next + 1) % logCapacity
}

// Exchanges возвращает последние HTTP обмены, от старых к новым.
func (s *Session) Exchanges() []models.ExchangeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ExchangeLog, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	out = append(out, s.ring[:s.next]...)
	return out
}

// LogText возвращает текстовый журнал последних обменов с контроллером.
func (s *Session) LogText(verbose bool) string {
	entries := s.Exchanges()
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		writeExchange(&b, len(entries)-i, entries[i], verbose)
	}
	return b.String()
}

// LogTextLatest возвращает текст только последнего обмена.
func (s *Session) LogTextLatest(verbose bool) string {
	entries := s.Exchanges()
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	writeExchange(&b, 1, entries[len(entries)-1], verbose)
	return b.String()
}

func writeExchange(b *strings.Builder, n int, e models.ExchangeLog, verbose bool) {
	fmt.Fprintf(b, "%d: %s %s %s -> ", n, e.Time.Format("2006-01-02 15:04:05.000"), e.Method, e.URI)
	if e.Error != "" {
		fmt.Fprintf(b, "error: %s", e.Error)
	} else {
		fmt.Fprintf(b, "%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	fmt.Fprintf(b, " (%s)", e.Duration.Round(time.Millisecond))
	if !verbose {
		return
	}
	if e.Request != "" {
		fmt.Fprintf(b, "\n  request: %s", e.Request)
	}
	if e.Response != "" {
		fmt.Fprintf(b, "\n  response: %s", e.Response)
	}
}

// Close завершает сессию на контроллере (GET /logout). Повторный вызов ничего не делает.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err := s.get(ctx, resourceLogout)

	s.mu.Lock()
	s.closed = true
	s.rmmp = models.RMMPState{Phase: models.RMMPObserver, Privilege: "none"}
	client := s.client
	s.mu.Unlock()
	client.CloseIdleConnections()

	if err != nil {
		s.logger.WithError(err).Warn("Не удалось завершить сессию на контроллере")
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("Сессия RWS закрыта")
	return nil
}
