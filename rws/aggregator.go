package rws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwtcode/abbAdapter/models"
	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"github.com/iwtcode/abbAdapter/rapid"
)

// CollectRuntimeInfo читает режим работы, состояние двигателей и выполнение RAPID.
// RWSConnected выставляется только если все три чтения прошли успешно.
func (s *Session) CollectRuntimeInfo(ctx context.Context) (*models.RuntimeInfo, error) {
	auto, err := s.IsAutoMode(ctx)
	if err != nil {
		return nil, err
	}
	motors, err := s.IsMotorsOn(ctx)
	if err != nil {
		return nil, err
	}
	running, err := s.IsRAPIDRunning(ctx)
	if err != nil {
		return nil, err
	}
	return &models.RuntimeInfo{
		AutoMode:     auto,
		MotorsOn:     motors,
		RAPIDRunning: running,
		RWSConnected: true,
	}, nil
}

// CollectStaticInfo собирает сведения, которые не меняются за время сессии:
// систему, задачи RAPID и статическую информацию механических блоков из конфигурации.
func (s *Session) CollectStaticInfo(ctx context.Context) (*models.StaticData, error) {
	// 1. Информация о системе
	system, err := s.SystemInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read system info: %w", err)
	}

	// 2. Задачи RAPID
	tasks, err := s.RAPIDTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rapid tasks: %w", err)
	}

	// 3. Механические блоки из конфигурации
	units, err := s.CFGMechanicalUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read mechanical units: %w", err)
	}

	// 4. Статическая информация по каждому блоку
	infos := make(map[string]models.StaticInfo, len(units))
	for _, u := range units {
		info, err := s.MechanicalUnitStaticInfo(ctx, u.Name)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Блок есть в конфигурации, но не активирован
				s.logger.WithField("unit", u.Name).Warn("Механический блок не найден, пропущен")
				continue
			}
			return nil, fmt.Errorf("failed to read static info of %s: %w", u.Name, err)
		}
		infos[u.Name] = *info
	}

	return &models.StaticData{
		System:    *system,
		Tasks:     tasks,
		Units:     infos,
		Timestamp: time.Now().UTC(),
	}, nil
}

// recentElogLimit - сколько последних сообщений журнала попадает в сводку.
const recentElogLimit = 10

// AggregateAllData последовательно собирает текущее состояние контроллера
// и перечисленных механических блоков.
func (s *Session) AggregateAllData(ctx context.Context, units []string) (*models.AggregatedData, error) {
	// 1. Режим, двигатели, выполнение
	runtime, err := s.CollectRuntimeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime info: %w", err)
	}

	// 2. Состояние выполнения RAPID
	execution, err := s.RAPIDExecution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rapid execution: %w", err)
	}

	// 3. Коррекция скорости
	speedRatio, err := s.SpeedRatio(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Не удалось прочитать коррекцию скорости")
		speedRatio = 0
	}

	// 4. Положение осей и динамическая информация по блокам
	joints := make(map[string]*rapid.JointTarget, len(units))
	dynamics := make(map[string]models.DynamicInfo, len(units))
	for _, unit := range units {
		jt, err := s.MechanicalUnitJointTarget(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.WithError(err).WithField("unit", unit).Warn("Не удалось прочитать положение осей")
		} else {
			joints[unit] = jt
		}

		dyn, err := s.MechanicalUnitDynamicInfo(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.WithError(err).WithField("unit", unit).Warn("Не удалось прочитать динамическую информацию")
		} else {
			dynamics[unit] = *dyn
		}
	}

	// 5. Последние сообщения общего домена журнала
	recent, err := s.ElogMessages(ctx, ElogCommonDomain, ElogQuery{Limit: recentElogLimit})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.logger.WithError(err).Warn("Не удалось прочитать журнал событий")
		recent = nil
	}

	return &models.AggregatedData{
		Host:         s.Host(),
		Timestamp:    time.Now().UTC(),
		Runtime:      *runtime,
		Execution:    execution,
		SpeedRatio:   speedRatio,
		JointTargets: joints,
		DynamicInfos: dynamics,
		RecentElog:   recent,
	}, nil
}
