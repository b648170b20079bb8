package rws

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
)

// readClass запрашивает ресурс и возвращает текст первого элемента с классом class.
// Отсутствие элемента считается ошибкой протокола.
func (s *Session) readClass(ctx context.Context, uri, class string) (string, error) {
	body, err := s.get(ctx, uri)
	if err != nil {
		return "", err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return "", err
	}
	nodes := byClass(doc, class)
	if len(nodes) == 0 {
		return "", fmt.Errorf("%w: %s: no %q element", apperrors.ErrProtocol, uri, class)
	}
	return textContent(nodes[0]), nil
}

// SpeedRatio возвращает коррекцию скорости в процентах (0-100).
func (s *Session) SpeedRatio(ctx context.Context) (int, error) {
	text, err := s.readClass(ctx, resourceSpeedRatio, "speedratio")
	if err != nil {
		return 0, fmt.Errorf("read speed ratio: %w", err)
	}
	ratio, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || ratio < 0 || ratio > 100 {
		return 0, fmt.Errorf("%w: speed ratio %q", apperrors.ErrProtocol, text)
	}
	return ratio, nil
}

// SetSpeedRatio задает коррекцию скорости в процентах (0-100).
func (s *Session) SetSpeedRatio(ctx context.Context, ratio int) error {
	if ratio < 0 || ratio > 100 {
		return fmt.Errorf("speed ratio %d is out of range 0-100", ratio)
	}
	form := url.Values{"speed-ratio": {strconv.Itoa(ratio)}}
	if _, err := s.post(ctx, s.dialect.Paths.SetSpeedRatio(), form); err != nil {
		return s.writeError("speed ratio", err)
	}
	return nil
}

// IsAutoMode сообщает, находится ли контроллер в автоматическом режиме.
func (s *Session) IsAutoMode(ctx context.Context) (bool, error) {
	text, err := s.readClass(ctx, resourceOpMode, "opmode")
	if err != nil {
		return false, fmt.Errorf("read operation mode: %w", err)
	}
	return text == valueAuto, nil
}

// IsMotorsOn сообщает, включены ли двигатели.
func (s *Session) IsMotorsOn(ctx context.Context) (bool, error) {
	text, err := s.readClass(ctx, s.dialect.Paths.CtrlState(), "ctrlstate")
	if err != nil {
		return false, fmt.Errorf("read controller state: %w", err)
	}
	return text == valueMotorOn, nil
}

// SetMotorsOn включает двигатели.
func (s *Session) SetMotorsOn(ctx context.Context) error {
	return s.setCtrlState(ctx, valueMotorOn)
}

// SetMotorsOff выключает двигатели.
func (s *Session) SetMotorsOff(ctx context.Context) error {
	return s.setCtrlState(ctx, valueMotorOff)
}

func (s *Session) setCtrlState(ctx context.Context, state string) error {
	form := url.Values{"ctrl-state": {state}}
	if _, err := s.post(ctx, s.dialect.Paths.SetCtrlState(), form); err != nil {
		return s.writeError("controller state "+state, err)
	}
	return nil
}
