package rws

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/websocket"
)

// SubscriptionPriority - приоритет ресурса в группе подписки.
type SubscriptionPriority int

const (
	PriorityLow SubscriptionPriority = iota
	PriorityMedium
	PriorityHigh
)

// SubscriptionResource - ресурс, об изменениях которого контроллер сообщает по WebSocket.
type SubscriptionResource struct {
	URI      string               `json:"uri"`
	Priority SubscriptionPriority `json:"priority"`
}

// IOSignalResource - изменение состояния сигнала ввода-вывода.
func IOSignalResource(name string, p SubscriptionPriority) SubscriptionResource {
	return SubscriptionResource{URI: resourceIOSignals + "/" + strings.Trim(name, "/") + ";state", Priority: p}
}

// ExecutionStateResource - запуск и остановка выполнения RAPID.
func ExecutionStateResource(p SubscriptionPriority) SubscriptionResource {
	return SubscriptionResource{URI: resourceExecution + ";ctrlexecstate", Priority: p}
}

// ElogResource - новые сообщения домена журнала событий.
func ElogResource(domain int, p SubscriptionPriority) SubscriptionResource {
	return SubscriptionResource{URI: resourceElog + "/" + strconv.Itoa(domain), Priority: p}
}

// SymbolResource - изменение значения символа RAPID. Адрес зависит от версии RWS.
func (s *Session) SymbolResource(sym Symbol, p SubscriptionPriority) SubscriptionResource {
	return SubscriptionResource{URI: s.dialect.Paths.SymbolSubscription(sym.Task, sym.Module, sym.Name), Priority: p}
}

// EventResult содержит событие подписки или ошибку канала.
type EventResult struct {
	Event *models.SubscriptionEvent
	Err   error
}

// Subscription - группа подписки на контроллере.
type Subscription struct {
	id        string
	session   *Session
	resources []SubscriptionResource

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// ID возвращает идентификатор группы, выданный контроллером.
func (sub *Subscription) ID() string { return sub.id }

// Resources возвращает текущий набор ресурсов группы.
func (sub *Subscription) Resources() []SubscriptionResource {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return append([]SubscriptionResource(nil), sub.resources...)
}

func subscriptionForm(resources []SubscriptionResource) url.Values {
	form := url.Values{}
	for i, r := range resources {
		key := strconv.Itoa(i)
		form.Add("resources", key)
		form.Set(key, r.URI)
		form.Set(key+"-p", strconv.Itoa(int(r.Priority)))
	}
	return form
}

// Subscribe создает группу подписки на ресурсы. События читаются через Listen.
func (s *Session) Subscribe(ctx context.Context, resources ...SubscriptionResource) (*Subscription, error) {
	if len(resources) == 0 {
		return nil, errors.New("subscribe: no resources")
	}
	_, header, err := s.exchange(ctx, http.MethodPost, resourceSubscription,
		subscriptionForm(resources).Encode(), s.dialect.ContentType)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	id := groupID(header.Get("Location"))
	if id == "" {
		return nil, fmt.Errorf("%w: subscription response has no poll location", apperrors.ErrProtocol)
	}
	s.logger.WithField("subscription", id).WithField("resources", len(resources)).Info("Подписка создана")
	return &Subscription{
		id:        id,
		session:   s,
		resources: append([]SubscriptionResource(nil), resources...),
	}, nil
}

// groupID извлекает идентификатор группы из Location вида .../poll/{id}.
func groupID(location string) string {
	_, id, ok := strings.Cut(location, resourcePoll+"/")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(id, "/?"); i >= 0 {
		id = id[:i]
	}
	return id
}

// Update заменяет набор ресурсов группы.
func (sub *Subscription) Update(ctx context.Context, resources ...SubscriptionResource) error {
	if len(resources) == 0 {
		return errors.New("update subscription: no resources")
	}
	s := sub.session
	_, _, err := s.exchange(ctx, http.MethodPut, resourceSubscription+"/"+url.PathEscape(sub.id),
		subscriptionForm(resources).Encode(), s.dialect.ContentType)
	if err != nil {
		return fmt.Errorf("update subscription %s: %w", sub.id, err)
	}
	sub.mu.Lock()
	sub.resources = append([]SubscriptionResource(nil), resources...)
	sub.mu.Unlock()
	return nil
}

// Listen открывает WebSocket группы и передает события в канал до отмены ctx,
// закрытия подписки или разрыва соединения. Канал закрывается при выходе.
func (sub *Subscription) Listen(ctx context.Context) (<-chan EventResult, error) {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return nil, fmt.Errorf("%w: subscription %s is closed", apperrors.ErrConnection, sub.id)
	}
	if sub.conn != nil {
		sub.mu.Unlock()
		return nil, fmt.Errorf("subscription %s is already listening", sub.id)
	}
	sub.mu.Unlock()

	conn, err := sub.dial(ctx)
	if err != nil {
		return nil, err
	}

	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: subscription %s is closed", apperrors.ErrConnection, sub.id)
	}
	sub.conn = conn
	sub.mu.Unlock()

	results := make(chan EventResult)
	logger := sub.session.logger.WithField("subscription", sub.id)

	go func() {
		defer close(results)
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		defer stop()
		defer sub.detach(conn)

		send := func(r EventResult) bool {
			select {
			case results <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			var msg string
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				if ctx.Err() != nil || sub.isClosed() {
					logger.Info("Прием событий остановлен")
					return
				}
				if errors.Is(err, io.EOF) {
					logger.Warn("Контроллер закрыл канал событий")
					return
				}
				logger.WithError(err).Error("Ошибка приема событий")
				send(EventResult{Err: fmt.Errorf("%w: receive events: %v", apperrors.ErrConnection, err)})
				return
			}

			events, err := parseEvents(msg, time.Now().UTC())
			if err != nil {
				if !send(EventResult{Err: err}) {
					return
				}
				continue
			}
			for i := range events {
				if !send(EventResult{Event: &events[i]}) {
					return
				}
			}
		}
	}()

	return results, nil
}

func (sub *Subscription) dial(ctx context.Context) (*websocket.Conn, error) {
	s := sub.session
	target := *s.baseURL
	target.Scheme = "ws"
	if s.baseURL.Scheme == "https" {
		target.Scheme = "wss"
	}
	target.Path = s.baseURL.Path + resourcePoll + "/" + sub.id

	cfg, err := websocket.NewConfig(target.String(), s.baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: websocket config: %v", apperrors.ErrConnection, err)
	}
	cfg.Protocol = []string{s.dialect.Paths.SubscriptionProtocol()}
	cfg.Header = http.Header{}

	cookies := s.cookies()
	if len(cookies) > 0 {
		parts := make([]string, 0, len(cookies))
		for _, c := range cookies {
			parts = append(parts, c.Name+"="+c.Value)
		}
		cfg.Header.Set("Cookie", strings.Join(parts, "; "))
	}
	if !s.dialect.Digest {
		cred := base64.StdEncoding.EncodeToString([]byte(s.opts.Username + ":" + s.opts.Password))
		cfg.Header.Set("Authorization", "Basic "+cred)
	}
	if target.Scheme == "wss" {
		cfg.TlsConfig = s.tlsConfig()
	}

	conn, err := cfg.DialContext(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("open events of %s: %w", sub.id, ctxErr)
		}
		return nil, fmt.Errorf("%w: open events of %s: %v", apperrors.ErrConnection, sub.id, err)
	}
	s.logger.WithField("subscription", sub.id).Debug("Канал событий открыт")
	return conn, nil
}

// tlsConfig берет настройки TLS из транспорта сессии, чтобы WebSocket доверял
// тем же сертификатам, что и HTTP запросы.
func (s *Session) tlsConfig() *tls.Config {
	if t, ok := s.opts.Transport.(*http.Transport); ok && t.TLSClientConfig != nil {
		return t.TLSClientConfig.Clone()
	}
	return &tls.Config{InsecureSkipVerify: s.opts.InsecureTLS} //nolint:gosec
}

func (sub *Subscription) detach(conn *websocket.Conn) {
	sub.mu.Lock()
	if sub.conn == conn {
		sub.conn = nil
	}
	sub.mu.Unlock()
	_ = conn.Close()
}

func (sub *Subscription) isClosed() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.closed
}

// Close закрывает канал событий и удаляет группу на контроллере.
// Повторный вызов ничего не делает.
func (sub *Subscription) Close(ctx context.Context) error {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return nil
	}
	sub.closed = true
	conn := sub.conn
	sub.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if _, err := sub.session.Do(ctx, http.MethodDelete, resourceSubscription+"/"+url.PathEscape(sub.id), ""); err != nil {
		return fmt.Errorf("close subscription %s: %w", sub.id, err)
	}
	sub.session.logger.WithField("subscription", sub.id).Info("Подписка закрыта")
	return nil
}

// parseEvents разбирает сообщение канала событий. Каждый элемент li с классом
// вида *-ev дает одно событие.
func parseEvents(body string, received time.Time) ([]models.SubscriptionEvent, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var events []models.SubscriptionEvent
	for _, n := range eventNodes(doc) {
		ev, err := parseEvent(n, received)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func eventNodes(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" && strings.HasSuffix(attr(c, "class"), "-ev") {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func firstLink(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			return attr(c, "href")
		}
	}
	return ""
}

func parseEvent(n *html.Node, received time.Time) (models.SubscriptionEvent, error) {
	class := attr(n, "class")
	href := firstLink(n)
	ev := models.SubscriptionEvent{Kind: models.EventOther, Class: class, Resource: href, Received: received}

	resource, _, _ := strings.Cut(href, ";")
	if unescaped, err := url.PathUnescape(resource); err == nil {
		resource = unescaped
	}

	switch class {
	case "ios-signalstate-ev":
		name, ok := strings.CutPrefix(resource, resourceIOSignals+"/")
		if !ok {
			return ev, fmt.Errorf("%w: io signal event for %q", apperrors.ErrProtocol, href)
		}
		ev.Kind = models.EventIOSignal
		ev.Signal = name
		ev.Value = findText(n, "lvalue")
	case "rap-ctrlexecstate-ev":
		state := strings.TrimSpace(findText(n, "ctrlexecstate"))
		if state != valueRunning && state != "stopped" {
			return ev, fmt.Errorf("%w: execution state event %q", apperrors.ErrProtocol, state)
		}
		ev.Kind = models.EventExecutionState
		ev.State = state
	case "rap-value-ev":
		name, ok := strings.CutPrefix(resource, "/rw/rapid/symbol/data/RAPID/")
		if !ok {
			name, ok = strings.CutPrefix(resource, "/rw/rapid/symbol/RAPID/")
		}
		if !ok {
			return ev, fmt.Errorf("%w: rapid value event for %q", apperrors.ErrProtocol, href)
		}
		ev.Kind = models.EventRAPIDValue
		ev.Symbol = strings.TrimSuffix(name, "/data")
		ev.Value = findText(n, "value")
	case "elog-message-ev":
		rest, ok := strings.CutPrefix(resource, resourceElog+"/")
		domain, seq, found := strings.Cut(rest, "/")
		if !ok || !found {
			return ev, fmt.Errorf("%w: elog event for %q", apperrors.ErrProtocol, href)
		}
		d, derr := strconv.Atoi(domain)
		seqnum, serr := strconv.Atoi(seq)
		if derr != nil || serr != nil {
			return ev, fmt.Errorf("%w: elog event for %q", apperrors.ErrProtocol, href)
		}
		ev.Kind = models.EventElog
		ev.ElogDomain = d
		ev.ElogSeqNum = seqnum
	}
	return ev, nil
}
