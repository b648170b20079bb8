package rws

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/rws/paths"
)

// IOSignals возвращает все сигналы ввода-вывода контроллера.
func (s *Session) IOSignals(ctx context.Context) ([]models.IOSignal, error) {
	body, err := s.get(ctx, resourceIOSignals)
	if err != nil {
		return nil, fmt.Errorf("read io signals: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	signals := []models.IOSignal{}
	for _, n := range byClass(doc, "ios-signal-li") {
		name := findText(n, "name")
		if name == "" {
			name = attr(n, "title")
		}
		if name == "" {
			return nil, fmt.Errorf("%w: io signal without name", apperrors.ErrProtocol)
		}
		signals = append(signals, models.IOSignal{
			Name:  name,
			Type:  findText(n, "type"),
			Value: findText(n, "lvalue"),
		})
	}
	return signals, nil
}

// IOSignal возвращает значение сигнала. Для сетевых сигналов RWS 1.0 имя
// указывается полностью: "network/device/signal".
func (s *Session) IOSignal(ctx context.Context, name string) (*models.IOSignal, error) {
	name = strings.Trim(name, "/")
	if name == "" {
		return nil, fmt.Errorf("%w: io signal name is empty", apperrors.ErrNotFound)
	}
	body, err := s.get(ctx, paths.SignalPath(name))
	if err != nil {
		return nil, fmt.Errorf("read io signal %s: %w", name, err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}
	if len(byClass(doc, "lvalue")) == 0 {
		return nil, fmt.Errorf("%w: io signal %s: no value", apperrors.ErrProtocol, name)
	}
	return &models.IOSignal{
		Name:  name,
		Type:  findText(doc, "type"),
		Value: findText(doc, "lvalue"),
	}, nil
}

// SetIOSignal записывает значение сигнала. Отказ контроллера возвращается как ErrWriteRejected.
func (s *Session) SetIOSignal(ctx context.Context, name, value string) error {
	name = strings.Trim(name, "/")
	_, err := s.post(ctx, s.dialect.Paths.SetIOSignal(name), url.Values{"lvalue": {value}})
	if err != nil {
		return s.writeError("io signal "+name, err)
	}
	return nil
}
