package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config задает параметры логирования клиента.
type Config struct {
	Level      string // trace, debug, info, warn, error; off или none отключают вывод
	LogsDir    string // Директория для ежедневных файлов логов, пусто - только stdout
	SavingDays uint   // Сколько дней хранить логи, 0 - не удалять
}

// Logger - logrus логгер с необязательным файлом и очисткой старых логов.
type Logger struct {
	*logrus.Logger

	config Config
	file   *os.File
	stop   chan struct{}
	once   sync.Once
}

// Disabled сообщает, что уровень отключает вывод.
func Disabled(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	return level == "off" || level == "none"
}

// New создает логгер. Ошибка открытия файла не фатальна: вывод остается в stdout.
func New(cfg Config) *Logger {
	l := &Logger{
		Logger: logrus.New(),
		config: cfg,
		stop:   make(chan struct{}),
	}

	if Disabled(cfg.Level) {
		l.SetOutput(io.Discard)
		return l
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// Настраиваем форматтер с понятным форматом времени
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var output io.Writer = os.Stdout
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0o755); err == nil {
			logFile := filepath.Join(cfg.LogsDir, time.Now().Format("2006-01-02")+".log")
			if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
				l.file = file
				output = io.MultiWriter(os.Stdout, file)
			}
		}
	}
	l.SetOutput(output)

	if cfg.LogsDir != "" && cfg.SavingDays > 0 {
		go l.cleanLoop()
	}

	return l
}

func (l *Logger) cleanLoop() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if _, err := CleanOldLogs(l.config.LogsDir, l.config.SavingDays, time.Now()); err != nil {
			l.WithError(err).Error("Не удалось очистить старые логи")
		}
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
	}
}

// CleanOldLogs удаляет файлы *.log старше savingDays дней и возвращает их количество.
func CleanOldLogs(dir string, savingDays uint, now time.Time) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := now.AddDate(0, 0, -int(savingDays))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".log" {
			continue
		}
		info, err := file.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close останавливает очистку и закрывает файл логов.
func (l *Logger) Close() error {
	var err error
	l.once.Do(func() {
		close(l.stop)
		if l.file != nil {
			l.SetOutput(os.Stdout)
			err = l.file.Close()
		}
	})
	return err
}
