package rws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwtcode/abbAdapter/models"
)

// PollingResult содержит данные или ошибку от одной попытки опроса.
type PollingResult struct {
	Data *models.AggregatedData
	Err  error
}

// StartRuntimePolling запускает фоновый опрос AggregateAllData с интервалом interval.
// Если предыдущий сбор еще не завершился, очередной тик пропускается.
// Опрос прекращается при отмене контекста, после чего канал закрывается.
// Неположительный интервал заменяется секундой.
func (s *Session) StartRuntimePolling(ctx context.Context, interval time.Duration, units ...string) <-chan PollingResult {
	if interval <= 0 {
		interval = time.Second
	}
	resultsChan := make(chan PollingResult)
	unitList := append([]string(nil), units...)

	go func() {
		var (
			busy atomic.Bool
			wg   sync.WaitGroup
		)
		defer func() {
			wg.Wait()
			close(resultsChan)
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Опрос остановлен из-за отмены контекста")
				return
			case <-ticker.C:
				if !busy.CompareAndSwap(false, true) {
					s.logger.Debug("Предыдущий опрос еще выполняется, тик пропущен")
					continue
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer busy.Store(false)

					data, err := s.AggregateAllData(ctx, unitList)
					select {
					case resultsChan <- PollingResult{Data: data, Err: err}:
					case <-ctx.Done():
					}
				}()
			}
		}
	}()

	return resultsChan
}
