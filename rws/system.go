package rws

import (
	"context"
	"fmt"

	"github.com/iwtcode/abbAdapter/models"
)

// SystemInfo возвращает имя системы, версию RobotWare, опции и тип контроллера.
func (s *Session) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	body, err := s.get(ctx, resourceSystem)
	if err != nil {
		return nil, fmt.Errorf("read system: %w", err)
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	info := &models.SystemInfo{SystemOptions: []string{}}
	for _, n := range byClass(doc, "sys-system-li") {
		info.SystemName = findText(n, "name")
		info.RobotWareVersion = findText(n, "rwversionname")
	}
	for _, n := range byClass(doc, "sys-option-li") {
		info.SystemOptions = append(info.SystemOptions, findText(n, "option"))
	}

	ctrlBody, err := s.get(ctx, resourceCtrl)
	if err != nil {
		return nil, fmt.Errorf("read controller service: %w", err)
	}
	ctrlDoc, err := parseDoc(ctrlBody)
	if err != nil {
		return nil, err
	}
	info.SystemType = findText(ctrlDoc, "ctrl-type")

	return info, nil
}
