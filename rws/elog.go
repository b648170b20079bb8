package rws

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"golang.org/x/net/html"
)

const (
	// DefaultElogLanguage - язык текстов журнала, если не задан другой.
	DefaultElogLanguage = "en"
	// ElogCommonDomain - общий домен журнала, в который попадают все сообщения.
	ElogCommonDomain = 0

	elogTimeLayout = "2006-01-02 T 15:04:05"
)

// ElogQuery задает выборку сообщений журнала. Сообщения идут от новых к старым.
type ElogQuery struct {
	Lang string
	// FromSeqNum - номер сообщения, с которого начинается выборка. 0 - с последнего.
	FromSeqNum int
	// Limit ограничивает число сообщений. 0 - без ограничения.
	Limit int
}

// ElogDomains возвращает домены журнала событий контроллера.
func (s *Session) ElogDomains(ctx context.Context, lang string) ([]models.ElogDomain, error) {
	if lang == "" {
		lang = DefaultElogLanguage
	}
	query := url.Values{"lang": {lang}, "resource": {"count"}}
	body, err := s.get(ctx, resourceElog+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("read elog domains: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var domains []models.ElogDomain
	for _, n := range byClass(doc, "elog-domain-li") {
		number, err := strconv.Atoi(strings.TrimSpace(attr(n, "title")))
		if err != nil {
			return nil, fmt.Errorf("%w: elog domain %q", apperrors.ErrProtocol, attr(n, "title"))
		}
		domains = append(domains, models.ElogDomain{Number: number, Name: findText(n, "domain-name")})
	}
	return domains, nil
}

// ElogMessages возвращает сообщения домена журнала событий.
func (s *Session) ElogMessages(ctx context.Context, domain int, q ElogQuery) ([]models.ElogMessage, error) {
	if domain < 0 {
		return nil, fmt.Errorf("%w: elog domain %d", apperrors.ErrNotFound, domain)
	}
	if q.Lang == "" {
		q.Lang = DefaultElogLanguage
	}
	query := url.Values{"lang": {q.Lang}, "order": {"lifo"}}
	if q.FromSeqNum > 0 {
		query.Set("elogseqnum", strconv.Itoa(q.FromSeqNum))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	uri := resourceElog + "/" + strconv.Itoa(domain) + "?" + query.Encode()
	body, err := s.get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("read elog domain %d: %w", domain, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	nodes := byClass(doc, "elog-message-li")
	messages := make([]models.ElogMessage, 0, len(nodes))
	for _, n := range nodes {
		msg, err := parseElogMessage(n)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// parseElogMessage разбирает элемент elog-message-li. Домен и номер берутся
// из title вида /rw/elog/{domain}/{seqnum}, при ошибке остаются нулевыми.
func parseElogMessage(n *html.Node) (models.ElogMessage, error) {
	var msg models.ElogMessage

	title := strings.TrimPrefix(attr(n, "title"), resourceElog+"/")
	if domain, seq, ok := strings.Cut(title, "/"); ok {
		msg.Domain, _ = strconv.Atoi(domain)
		msg.SequenceNumber, _ = strconv.Atoi(seq)
	}

	switch strings.TrimSpace(findText(n, "msgtype")) {
	case "1":
		msg.Type = models.ElogInformation
	case "2":
		msg.Type = models.ElogWarning
	case "3":
		msg.Type = models.ElogError
	default:
		return msg, fmt.Errorf("%w: elog message type %q", apperrors.ErrProtocol, findText(n, "msgtype"))
	}

	code, err := strconv.Atoi(strings.TrimSpace(findText(n, "code")))
	if err != nil {
		return msg, fmt.Errorf("%w: elog message code %q", apperrors.ErrProtocol, findText(n, "code"))
	}
	msg.Code = code
	msg.Source = findText(n, "src-name")
	if ts, err := time.Parse(elogTimeLayout, strings.TrimSpace(findText(n, "tstamp"))); err == nil {
		msg.Timestamp = ts
	}

	msg.Title = strings.Join(findTexts(n, "title"), " ")
	msg.Description = strings.Join(findTexts(n, "desc"), " ")
	msg.Consequences = strings.Join(findTexts(n, "conseqs"), " ")
	msg.Causes = strings.Join(findTexts(n, "causes"), " ")
	msg.Actions = strings.Join(findTexts(n, "actions"), " ")

	argc := 0
	if text := strings.TrimSpace(findText(n, "argc")); text != "" {
		if argc, err = strconv.Atoi(text); err != nil || argc < 0 {
			return msg, fmt.Errorf("%w: elog argument count %q", apperrors.ErrProtocol, text)
		}
	}
	for i := 1; i <= argc; i++ {
		arg := models.ElogArg{Type: "STRING"}
		if nodes := byClass(n, "arg"+strconv.Itoa(i)); len(nodes) > 0 {
			arg.Value = textContent(nodes[0])
			if typ := attr(nodes[0], "type"); typ != "" {
				arg.Type = strings.ToUpper(typ)
			}
		}
		if err := checkElogArg(arg); err != nil {
			return msg, err
		}
		msg.Args = append(msg.Args, arg)
	}
	return msg, nil
}

func checkElogArg(arg models.ElogArg) error {
	var err error
	switch arg.Type {
	case "STRING":
	case "LONG":
		_, err = strconv.ParseInt(strings.TrimSpace(arg.Value), 10, 64)
	case "FLOAT":
		_, err = strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
	default:
		return fmt.Errorf("%w: elog argument type %q", apperrors.ErrProtocol, arg.Type)
	}
	if err != nil {
		return fmt.Errorf("%w: elog argument %s(%q)", apperrors.ErrProtocol, arg.Type, arg.Value)
	}
	return nil
}
