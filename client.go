package abb

import (
	"context"
	"fmt"
	"time"

	"github.com/iwtcode/abbAdapter/internal/logging"
	"github.com/iwtcode/abbAdapter/models"
	"github.com/iwtcode/abbAdapter/rapid"
	"github.com/iwtcode/abbAdapter/rws"
	"github.com/sirupsen/logrus"
)

// Client является основной точкой входа для взаимодействия с библиотекой.
type Client struct {
	session *rws.Session
	config  *Config
	logger  *logging.Logger
}

// New создает и возвращает новый экземпляр клиента.
// Эта функция проверяет доступность контроллера и открывает сессию RWS.
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = Load()
	}

	logger := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		LogsDir:    cfg.LogDir,
		SavingDays: cfg.LogSavingDays,
	})

	session, err := rws.Connect(ctx, rws.Options{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Version:     cfg.RWSVersion,
		Timeout:     time.Duration(cfg.TimeoutMs) * time.Millisecond,
		InsecureTLS: cfg.InsecureTLS,
		Application: cfg.Application,
		Location:    cfg.Location,
	}, logger.Logger)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to connect to controller: %w", err)
	}

	return &Client{
		session: session,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Close завершает сессию на контроллере и закрывает файл логов.
func (c *Client) Close(ctx context.Context) error {
	err := c.session.Close(ctx)
	if lerr := c.logger.Close(); err == nil {
		err = lerr
	}
	return err
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger.Logger
}

// Session возвращает сессию RWS для операций, которых нет в Client.
func (c *Client) Session() *rws.Session {
	return c.session
}

// Registry возвращает реестр пользовательских записей RAPID.
func (c *Client) Registry() *rapid.Registry {
	return c.session.Registry()
}

// GetLogText возвращает журнал последних обменов с контроллером.
func (c *Client) GetLogText(verbose bool) string {
	return c.session.LogText(verbose)
}

// GetLogTextLatest возвращает последний обмен с контроллером.
func (c *Client) GetLogTextLatest(verbose bool) string {
	return c.session.LogTextLatest(verbose)
}

// GetSystemInfo возвращает системную информацию о контроллере.
func (c *Client) GetSystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	return c.session.SystemInfo(ctx)
}

// GetRuntimeInfo возвращает режим работы, состояние двигателей и выполнения RAPID.
func (c *Client) GetRuntimeInfo(ctx context.Context) (*models.RuntimeInfo, error) {
	return c.session.CollectRuntimeInfo(ctx)
}

// GetStaticInfo возвращает неизменные за время сессии сведения о контроллере.
func (c *Client) GetStaticInfo(ctx context.Context) (*models.StaticData, error) {
	return c.session.CollectStaticInfo(ctx)
}

// GetCurrentData возвращает полную сводку текущего состояния контроллера.
func (c *Client) GetCurrentData(ctx context.Context, units ...string) (*models.AggregatedData, error) {
	return c.session.AggregateAllData(ctx, units)
}

// StartPolling запускает периодический сбор GetCurrentData до отмены ctx.
func (c *Client) StartPolling(ctx context.Context, interval time.Duration, units ...string) <-chan rws.PollingResult {
	return c.session.StartRuntimePolling(ctx, interval, units...)
}

// IsAutoMode сообщает, находится ли контроллер в автоматическом режиме.
func (c *Client) IsAutoMode(ctx context.Context) (bool, error) {
	return c.session.IsAutoMode(ctx)
}

// IsMotorsOn сообщает, включены ли двигатели.
func (c *Client) IsMotorsOn(ctx context.Context) (bool, error) {
	return c.session.IsMotorsOn(ctx)
}

// IsRAPIDRunning сообщает, выполняется ли программа RAPID.
func (c *Client) IsRAPIDRunning(ctx context.Context) (bool, error) {
	return c.session.IsRAPIDRunning(ctx)
}

// GetSpeedRatio возвращает коррекцию скорости в процентах.
func (c *Client) GetSpeedRatio(ctx context.Context) (int, error) {
	return c.session.SpeedRatio(ctx)
}

// SetSpeedRatio задает коррекцию скорости в процентах.
func (c *Client) SetSpeedRatio(ctx context.Context, ratio int) error {
	return c.session.SetSpeedRatio(ctx, ratio)
}

// GetCFGArms возвращает конфигурацию рук.
func (c *Client) GetCFGArms(ctx context.Context) ([]models.CFGArm, error) {
	return c.session.CFGArms(ctx)
}

// GetCFGJoints возвращает конфигурацию сочленений.
func (c *Client) GetCFGJoints(ctx context.Context) ([]models.CFGJoint, error) {
	return c.session.CFGJoints(ctx)
}

// GetCFGMechanicalUnits возвращает конфигурацию механических блоков.
func (c *Client) GetCFGMechanicalUnits(ctx context.Context) ([]models.CFGMechanicalUnit, error) {
	return c.session.CFGMechanicalUnits(ctx)
}

// GetCFGMechanicalUnitGroups возвращает группы механических блоков.
func (c *Client) GetCFGMechanicalUnitGroups(ctx context.Context) ([]models.CFGMechanicalUnitGroup, error) {
	return c.session.CFGMechanicalUnitGroups(ctx)
}

// GetCFGPresentOptions возвращает установленные опции RobotWare.
func (c *Client) GetCFGPresentOptions(ctx context.Context) ([]models.CFGPresentOption, error) {
	return c.session.CFGPresentOptions(ctx)
}

// GetCFGRobots возвращает конфигурацию роботов.
func (c *Client) GetCFGRobots(ctx context.Context) ([]models.CFGRobot, error) {
	return c.session.CFGRobots(ctx)
}

// GetCFGSingles возвращает конфигурацию одиночных осей.
func (c *Client) GetCFGSingles(ctx context.Context) ([]models.CFGSingle, error) {
	return c.session.CFGSingles(ctx)
}

// GetCFGTransmissions возвращает конфигурацию передач.
func (c *Client) GetCFGTransmissions(ctx context.Context) ([]models.CFGTransmission, error) {
	return c.session.CFGTransmissions(ctx)
}

// GetRAPIDTasks возвращает задачи RAPID.
func (c *Client) GetRAPIDTasks(ctx context.Context) ([]models.RAPIDTaskInfo, error) {
	return c.session.RAPIDTasks(ctx)
}

// GetRAPIDModules возвращает модули задачи RAPID.
func (c *Client) GetRAPIDModules(ctx context.Context, task string) ([]models.RAPIDModuleInfo, error) {
	return c.session.RAPIDModulesInfo(ctx, task)
}

// GetMechanicalUnitStaticInfo возвращает статическую информацию о механическом блоке.
func (c *Client) GetMechanicalUnitStaticInfo(ctx context.Context, unit string) (*models.StaticInfo, error) {
	return c.session.MechanicalUnitStaticInfo(ctx, unit)
}

// GetMechanicalUnitDynamicInfo возвращает текущее состояние механического блока.
func (c *Client) GetMechanicalUnitDynamicInfo(ctx context.Context, unit string) (*models.DynamicInfo, error) {
	return c.session.MechanicalUnitDynamicInfo(ctx, unit)
}

// GetJointTarget возвращает положение осей механического блока.
func (c *Client) GetJointTarget(ctx context.Context, unit string) (*rapid.JointTarget, error) {
	return c.session.MechanicalUnitJointTarget(ctx, unit)
}

// GetRobTarget возвращает декартово положение механического блока.
func (c *Client) GetRobTarget(ctx context.Context, unit string, coord rws.Coordinate, tool, wobj string) (*rapid.RobTarget, error) {
	return c.session.MechanicalUnitRobTarget(ctx, unit, coord, tool, wobj)
}

// GetSymbolData возвращает текстовое значение символа RAPID.
func (c *Client) GetSymbolData(ctx context.Context, sym rws.Symbol) (string, error) {
	return c.session.RAPIDSymbolData(ctx, sym)
}

// GetSymbolValue читает символ RAPID в v с проверкой типа.
func (c *Client) GetSymbolValue(ctx context.Context, sym rws.Symbol, v rapid.Value) error {
	return c.session.RAPIDSymbolValue(ctx, sym, v)
}

// GetSymbol читает символ RAPID, определяя тип по объявлению на контроллере.
func (c *Client) GetSymbol(ctx context.Context, sym rws.Symbol) (rapid.Value, error) {
	return c.session.RAPIDSymbol(ctx, sym)
}

// SetSymbolData записывает текстовое значение символа RAPID.
func (c *Client) SetSymbolData(ctx context.Context, sym rws.Symbol, text string) error {
	return c.session.SetRAPIDSymbolData(ctx, sym, text)
}

// SetSymbolValue записывает типизированное значение символа RAPID.
func (c *Client) SetSymbolValue(ctx context.Context, sym rws.Symbol, v rapid.Value) error {
	return c.session.SetRAPIDSymbolValue(ctx, sym, v)
}

// RequestRMMP запрашивает привилегию записи.
func (c *Client) RequestRMMP(ctx context.Context) error {
	return c.session.RequestRMMP(ctx)
}

// GetRMMPState опрашивает состояние привилегии записи.
func (c *Client) GetRMMPState(ctx context.Context) (*models.RMMPState, error) {
	return c.session.RMMPState(ctx)
}

// WaitForRMMP запрашивает привилегию записи и ждет ее выдачи до отмены ctx.
func (c *Client) WaitForRMMP(ctx context.Context, interval time.Duration) (*models.RMMPState, error) {
	return c.session.WaitForRMMP(ctx, interval)
}

// GetRAPIDExecution возвращает состояние выполнения RAPID.
func (c *Client) GetRAPIDExecution(ctx context.Context) (*models.RAPIDExecution, error) {
	return c.session.RAPIDExecution(ctx)
}

// StartRAPID запускает выполнение RAPID.
func (c *Client) StartRAPID(ctx context.Context) error {
	return c.session.StartRAPIDExecution(ctx)
}

// StopRAPID останавливает выполнение RAPID. Пустые аргументы означают обычную остановку.
func (c *Client) StopRAPID(ctx context.Context, stopMode, useTSP string) error {
	return c.session.StopRAPIDExecution(ctx, stopMode, useTSP)
}

// ResetProgramPointer переводит указатель программы на main.
func (c *Client) ResetProgramPointer(ctx context.Context) error {
	return c.session.ResetRAPIDProgramPointer(ctx)
}

// SetMotorsOn включает двигатели.
func (c *Client) SetMotorsOn(ctx context.Context) error {
	return c.session.SetMotorsOn(ctx)
}

// SetMotorsOff выключает двигатели.
func (c *Client) SetMotorsOff(ctx context.Context) error {
	return c.session.SetMotorsOff(ctx)
}

// GetSymbolProperties возвращает свойства символа RAPID.
func (c *Client) GetSymbolProperties(ctx context.Context, sym rws.Symbol) (*models.RAPIDSymbolProperties, error) {
	return c.session.RAPIDSymbolProperties(ctx, sym)
}

// GetIOSignals возвращает все сигналы ввода-вывода.
func (c *Client) GetIOSignals(ctx context.Context) ([]models.IOSignal, error) {
	return c.session.IOSignals(ctx)
}

// GetIOSignal возвращает значение сигнала.
func (c *Client) GetIOSignal(ctx context.Context, name string) (*models.IOSignal, error) {
	return c.session.IOSignal(ctx, name)
}

// SetIOSignal записывает значение сигнала.
func (c *Client) SetIOSignal(ctx context.Context, name, value string) error {
	return c.session.SetIOSignal(ctx, name, value)
}

// GetFile возвращает содержимое файла контроллера.
func (c *Client) GetFile(ctx context.Context, dir, name string) (string, error) {
	return c.session.File(ctx, dir, name)
}

// UploadFile записывает файл на контроллер.
func (c *Client) UploadFile(ctx context.Context, dir, name, content string) error {
	return c.session.UploadFile(ctx, dir, name, content)
}

// DeleteFile удаляет файл на контроллере.
func (c *Client) DeleteFile(ctx context.Context, dir, name string) error {
	return c.session.DeleteFile(ctx, dir, name)
}

// RegisterLocalUser регистрирует пользователя как локального клиента.
func (c *Client) RegisterLocalUser(ctx context.Context, username, application, location string) error {
	return c.session.RegisterLocalUser(ctx, username, application, location)
}

// RegisterRemoteUser регистрирует пользователя как удаленного клиента.
func (c *Client) RegisterRemoteUser(ctx context.Context, username, application, location string) error {
	return c.session.RegisterRemoteUser(ctx, username, application, location)
}

// RequestMastership захватывает мастерство в домене.
func (c *Client) RequestMastership(ctx context.Context, domain string) error {
	return c.session.RequestMastership(ctx, domain)
}

// ReleaseMastership освобождает мастерство в домене.
func (c *Client) ReleaseMastership(ctx context.Context, domain string) error {
	return c.session.ReleaseMastership(ctx, domain)
}

// GetElogDomains возвращает домены журнала событий.
func (c *Client) GetElogDomains(ctx context.Context, lang string) ([]models.ElogDomain, error) {
	return c.session.ElogDomains(ctx, lang)
}

// GetElogMessages возвращает сообщения домена журнала событий.
func (c *Client) GetElogMessages(ctx context.Context, domain int, q rws.ElogQuery) ([]models.ElogMessage, error) {
	return c.session.ElogMessages(ctx, domain, q)
}

// Subscribe создает группу подписки на события контроллера.
func (c *Client) Subscribe(ctx context.Context, resources ...rws.SubscriptionResource) (*rws.Subscription, error) {
	return c.session.Subscribe(ctx, resources...)
}
