package rws

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Статусы опроса RMMP, которые означают отказ или отзыв привилегии.
var rmmpDenied = map[string]bool{
	"DENIED":    true,
	"REJECTED":  true,
	"CANCELLED": true,
	"CANCELED":  true,
	"TIMEOUT":   true,
	"REVOKED":   true,
	"ABORTED":   true,
}

func grantedPrivilege(p string) bool {
	return p == "modify" || p == "exec"
}

// RequestRMMP запрашивает привилегию modify (Remote Mastership Modify Privilege).
// Сессия переходит из Observer в PendingModify. В PendingModify и Modify вызов
// ничего не отправляет.
func (s *Session) RequestRMMP(ctx context.Context) error {
	s.rmmpMu.Lock()
	defer s.rmmpMu.Unlock()

	if s.RMMPPhase() != models.RMMPObserver {
		return nil
	}

	if _, err := s.post(ctx, resourceRMMP, url.Values{"privilege": {"modify"}}); err != nil {
		return fmt.Errorf("request rmmp: %w", err)
	}

	s.mu.Lock()
	s.rmmp.Phase = models.RMMPPendingModify
	s.mu.Unlock()

	s.logger.Info("Запрошена привилегия RMMP, ожидается подтверждение на FlexPendant")
	return nil
}

// RMMPPhase возвращает текущую фазу без обращения к контроллеру.
func (s *Session) RMMPPhase() models.RMMPPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rmmp.Phase
}

// RMMPState опрашивает контроллер и продвигает фазу сессии:
// PendingModify переходит в Modify после подтверждения и в Observer после отказа.
// В Modify опрос не меняет фазу, если контроллер явно не отозвал привилегию.
func (s *Session) RMMPState(ctx context.Context) (*models.RMMPState, error) {
	s.rmmpMu.Lock()
	defer s.rmmpMu.Unlock()

	body, err := s.get(ctx, resourceRMMPPoll)
	if err != nil {
		return nil, fmt.Errorf("poll rmmp: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	privilege := strings.ToLower(findText(doc, "privilege"))
	status := strings.ToUpper(findText(doc, "status"))

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.rmmp.Phase
	next := prev
	switch prev {
	case models.RMMPPendingModify:
		switch {
		case grantedPrivilege(privilege) || status == "GRANTED":
			next = models.RMMPModify
		case rmmpDenied[status]:
			next = models.RMMPObserver
		}
	case models.RMMPModify:
		if rmmpDenied[status] {
			next = models.RMMPObserver
		}
	}

	s.rmmp = models.RMMPState{
		Phase:       next,
		Privilege:   privilege,
		Status:      status,
		UserID:      findText(doc, "userid"),
		Alias:       findText(doc, "alias"),
		Location:    findText(doc, "location"),
		Application: findText(doc, "application"),
	}
	if s.rmmp.Privilege == "" {
		s.rmmp.Privilege = "none"
		if next == models.RMMPModify {
			s.rmmp.Privilege = "modify"
		}
	}

	if next != prev {
		s.logger.WithFields(logrus.Fields{
			"from":   prev,
			"to":     next,
			"status": status,
		}).Info("Фаза RMMP изменилась")
	}

	state := s.rmmp
	return &state, nil
}

// WaitForRMMP запрашивает привилегию (если сессия в Observer) и опрашивает
// контроллер с интервалом interval до получения Modify. Время ожидания
// ограничивается только ctx. Отказ контроллера возвращается как ErrPrivilegeDenied.
func (s *Session) WaitForRMMP(ctx context.Context, interval time.Duration) (*models.RMMPState, error) {
	if interval <= 0 {
		interval = time.Second
	}
	if err := s.RequestRMMP(ctx); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, err := s.RMMPState(ctx)
		if err != nil {
			return nil, err
		}
		switch state.Phase {
		case models.RMMPModify:
			return state, nil
		case models.RMMPObserver:
			return state, fmt.Errorf("%w: status %s", apperrors.ErrPrivilegeDenied, state.Status)
		}

		select {
		case <-ctx.Done():
			return state, fmt.Errorf("wait for rmmp: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
