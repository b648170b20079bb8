package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	abb "github.com/iwtcode/abbAdapter"
	"github.com/iwtcode/abbAdapter/rws"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type options struct {
	envFile      string
	configFile   string
	host         string
	version      string
	askPassword  bool
	output       string
	units        []string
	task         string
	reads        []string
	sets         []string
	rmmp         bool
	rmmpTimeout  time.Duration
	rmmpInterval time.Duration
	polls        int
	events       int
	eventTimeout time.Duration
	verboseLog   bool
}

// checker выполняет шаги проверки и считает неудачные.
type checker struct {
	client *abb.Client
	logger *logrus.Logger
	out    io.Writer
	format string
	failed int
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options

	flagSet := pflag.NewFlagSet("rwscheck", pflag.ContinueOnError)
	flagSet.StringVar(&opts.envFile, "env", ".env", "path to .env file with ABB_* variables")
	flagSet.StringVar(&opts.configFile, "config", "", "path to TOML config file")
	flagSet.StringVar(&opts.host, "host", "", "controller address, overrides ABB_HOST")
	flagSet.StringVar(&opts.version, "rws", "", "RWS version 1.0 (IRC5) or 2.0 (OmniCore)")
	flagSet.BoolVar(&opts.askPassword, "ask-password", false, "read the password from the terminal")
	flagSet.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	flagSet.StringSliceVar(&opts.units, "unit", []string{"ROB_1"}, "mechanical units to inspect")
	flagSet.StringVar(&opts.task, "task", "T_ROB1", "RAPID task for module listing")
	flagSet.StringArrayVar(&opts.reads, "read", nil, "RAPID symbol to read, task/module/name")
	flagSet.StringArrayVar(&opts.sets, "set", nil, "RAPID symbol to write, task/module/name=value")
	flagSet.BoolVar(&opts.rmmp, "rmmp", false, "request RMMP before writing")
	flagSet.DurationVar(&opts.rmmpTimeout, "rmmp-timeout", 60*time.Second, "how long to wait for the RMMP grant")
	flagSet.DurationVar(&opts.rmmpInterval, "rmmp-interval", time.Second, "RMMP poll interval")
	flagSet.IntVar(&opts.polls, "polls", 0, "number of runtime polling results to print")
	flagSet.IntVar(&opts.events, "events", 0, "number of subscription events to print (execution state and elog)")
	flagSet.DurationVar(&opts.eventTimeout, "events-timeout", 30*time.Second, "how long to wait for subscription events")
	flagSet.BoolVar(&opts.verboseLog, "verbose-log", false, "print request and response bodies in the exchange log")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.output != "json" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	// 1) Загрузка конфигурации
	if err := godotenv.Load(opts.envFile); err != nil {
		logrus.Warnf("Could not load %s file. Using default values or environment variables: %v", opts.envFile, err)
	}
	cfg := abb.Load()
	if opts.configFile != "" {
		var err error
		if cfg, err = abb.LoadFile(opts.configFile); err != nil {
			return err
		}
	}
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.version != "" {
		cfg.RWSVersion = opts.version
	}
	if opts.askPassword {
		password, err := readPassword(cfg.Username)
		if err != nil {
			return err
		}
		cfg.Password = password
	}

	// 2) Подключение
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := abb.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	p := &checker{client: client, logger: client.GetLogger(), out: os.Stdout, format: opts.output}
	p.logger.Infof("Подключено к %s (RWS %s)", cfg.Host, client.Session().Dialect().Version)

	p.readSteps(ctx, opts)
	p.writeSteps(ctx, opts)
	p.pollSteps(ctx, opts)
	p.eventSteps(ctx, opts)

	p.runStep("LogText", func() (any, error) {
		return client.GetLogText(opts.verboseLog), nil
	})

	if p.failed > 0 {
		return fmt.Errorf("%d step(s) failed", p.failed)
	}
	return nil
}

func (p *checker) readSteps(ctx context.Context, opts options) {
	c := p.client

	p.runStep("SystemInfo", func() (any, error) { return c.GetSystemInfo(ctx) })
	p.runStep("RuntimeInfo", func() (any, error) { return c.GetRuntimeInfo(ctx) })
	p.runStep("StaticInfo", func() (any, error) { return c.GetStaticInfo(ctx) })
	p.runStep("SpeedRatio", func() (any, error) { return c.GetSpeedRatio(ctx) })

	p.runStep("CFGArms", func() (any, error) { return c.GetCFGArms(ctx) })
	p.runStep("CFGJoints", func() (any, error) { return c.GetCFGJoints(ctx) })
	p.runStep("CFGMechanicalUnits", func() (any, error) { return c.GetCFGMechanicalUnits(ctx) })
	p.runStep("CFGMechanicalUnitGroups", func() (any, error) { return c.GetCFGMechanicalUnitGroups(ctx) })
	p.runStep("CFGPresentOptions", func() (any, error) { return c.GetCFGPresentOptions(ctx) })
	p.runStep("CFGRobots", func() (any, error) { return c.GetCFGRobots(ctx) })
	p.runStep("CFGSingles", func() (any, error) { return c.GetCFGSingles(ctx) })
	p.runStep("CFGTransmissions", func() (any, error) { return c.GetCFGTransmissions(ctx) })

	p.runStep("ElogDomains", func() (any, error) { return c.GetElogDomains(ctx, "") })
	p.runStep("ElogMessages", func() (any, error) {
		return c.GetElogMessages(ctx, rws.ElogCommonDomain, rws.ElogQuery{Limit: 10})
	})

	p.runStep("RAPIDTasks", func() (any, error) { return c.GetRAPIDTasks(ctx) })
	p.runStep("RAPIDModules "+opts.task, func() (any, error) { return c.GetRAPIDModules(ctx, opts.task) })

	for _, unit := range opts.units {
		p.runStep("StaticInfo "+unit, func() (any, error) { return c.GetMechanicalUnitStaticInfo(ctx, unit) })
		p.runStep("DynamicInfo "+unit, func() (any, error) { return c.GetMechanicalUnitDynamicInfo(ctx, unit) })
		p.runStep("JointTarget "+unit, func() (any, error) { return c.GetJointTarget(ctx, unit) })
		p.runStep("RobTarget "+unit, func() (any, error) {
			return c.GetRobTarget(ctx, unit, rws.CoordinateBase, "", "")
		})
	}

	for _, path := range opts.reads {
		p.runStep("Read "+path, func() (any, error) {
			sym, ok := rws.ParseSymbol(path)
			if !ok {
				return nil, fmt.Errorf("invalid symbol %q, expected task/module/name", path)
			}
			v, err := c.GetSymbol(ctx, sym)
			if err != nil {
				return nil, err
			}
			return map[string]any{"type": v.Type(), "value": v}, nil
		})
	}
}

func (p *checker) writeSteps(ctx context.Context, opts options) {
	if len(opts.sets) == 0 {
		return
	}
	c := p.client

	if opts.rmmp {
		p.runStep("RMMP", func() (any, error) {
			waitCtx, cancel := context.WithTimeout(ctx, opts.rmmpTimeout)
			defer cancel()
			p.logger.Info("Ожидание подтверждения RMMP на FlexPendant...")
			return c.WaitForRMMP(waitCtx, opts.rmmpInterval)
		})
	}

	for _, assignment := range opts.sets {
		p.runStep("Write "+assignment, func() (any, error) {
			sym, value, err := parseAssignment(assignment)
			if err != nil {
				return nil, err
			}
			if err := c.SetSymbolData(ctx, sym, value); err != nil {
				return nil, err
			}
			return c.GetSymbolData(ctx, sym)
		})
	}
}

func (p *checker) pollSteps(ctx context.Context, opts options) {
	if opts.polls <= 0 {
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := p.client.StartPolling(pollCtx, time.Second, opts.units...)
	for i := 1; i <= opts.polls; i++ {
		res, ok := <-results
		if !ok {
			return
		}
		p.runStep(fmt.Sprintf("Polling %d", i), func() (any, error) { return res.Data, res.Err })
	}
}

func (p *checker) eventSteps(ctx context.Context, opts options) {
	if opts.events <= 0 {
		return
	}
	eventCtx, cancel := context.WithTimeout(ctx, opts.eventTimeout)
	defer cancel()

	var sub *rws.Subscription
	ok := p.runStep("Subscribe", func() (any, error) {
		var err error
		sub, err = p.client.Subscribe(eventCtx,
			rws.ExecutionStateResource(rws.PriorityMedium),
			rws.ElogResource(rws.ElogCommonDomain, rws.PriorityMedium),
		)
		if err != nil {
			return nil, err
		}
		return sub.Resources(), nil
	})
	if !ok {
		return
	}
	defer sub.Close(context.Background())

	events, err := sub.Listen(eventCtx)
	if err != nil {
		p.runStep("Listen", func() (any, error) { return nil, err })
		return
	}
	for i := 1; i <= opts.events; i++ {
		res, ok := <-events
		if !ok {
			p.logger.Warn("Канал событий закрыт до получения всех событий")
			return
		}
		p.runStep(fmt.Sprintf("Event %d", i), func() (any, error) { return res.Event, res.Err })
	}
}

// parseAssignment разбирает "task/module/name=value". Значение передается как есть.
func parseAssignment(s string) (rws.Symbol, string, error) {
	path, value, ok := strings.Cut(s, "=")
	if !ok || value == "" {
		return rws.Symbol{}, "", fmt.Errorf("invalid assignment %q, expected task/module/name=value", s)
	}
	sym, ok := rws.ParseSymbol(path)
	if !ok {
		return rws.Symbol{}, "", fmt.Errorf("invalid symbol %q, expected task/module/name", path)
	}
	return sym, value, nil
}

func readPassword(username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--ask-password requires an interactive terminal")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

// runStep выполняет шаг и печатает результат. Ошибка шага не прерывает остальные,
// но runStep тогда возвращает false.
func (p *checker) runStep(name string, fn func() (any, error)) bool {
	p.logger.Infof("--- Запуск шага: %s ---", name)

	data, err := fn()
	if err != nil {
		p.failed++
		p.logger.WithError(err).Errorf("Ошибка выполнения на шаге %s", name)
		return false
	}
	if err := printAs(p.out, p.format, name, data); err != nil {
		p.failed++
		p.logger.WithError(err).Errorf("Ошибка вывода на шаге %s", name)
		return false
	}
	p.logger.Infof("--- Шаг %s выполнен успешно ---", name)
	return true
}

// printAs выводит данные в формате JSON или YAML.
func printAs(w io.Writer, format, title string, data any) error {
	fmt.Fprintf(w, "--- %s ---\n", title)
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		jsonData, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", jsonData)
		return err
	}
}
