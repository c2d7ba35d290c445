package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/annel0/blockedit/internal/config"
	"github.com/annel0/blockedit/internal/logging"
	"github.com/annel0/blockedit/internal/metrics"
	"github.com/annel0/blockedit/internal/storage"
	"github.com/annel0/blockedit/internal/world/block"
	"github.com/annel0/blockedit/internal/world/block/catalog"
	"github.com/prometheus/client_golang/prometheus"
)

const usage = `Usage: blockedit [flags] <command> [args]

Commands:
  rotate <block> [n]          повернуть на 90° n раз
  rotate-reverse <block> [n]  повернуть на -90° n раз
  flip <block> [dir]          отразить (north_south, west_east, up_down)
  cycle <block> [inc]         перебрать данные на inc
  match <pattern> <block>...  проверить совпадение блоков с шаблоном
  save <name> <pattern>...    сохранить набор шаблонов
  show <name>                 показать сохранённый набор
  list                        перечислить сохранённые наборы
  delete <name>               удалить сохранённый набор
  filter <name> <block>...    проверить блоки по сохранённому набору

Блок: тип[:данные]. Шаблон: тип:*, тип:данные/маска или блок.
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	logging.GetLoggerManager().CloseAll()

	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// app собирает зависимости команд
type app struct {
	cfg       *config.Config
	transform block.Transform
	registry  *prometheus.Registry
	out       io.Writer
	logger    *logging.Logger
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("blockedit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath  = fs.String("config", "", "YAML config file")
		catalogPath = fs.String("catalog", "", "YAML rule catalog (overrides config)")
		dataDir     = fs.String("data", "", "Pattern store directory (overrides config)")
		stats       = fs.Bool("stats", false, "Print transform counters after the command")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}

	level, err := logging.ParseLevel(cfg.Logging.GetLevel())
	if err != nil {
		return err
	}
	logging.GetLoggerManager().Configure(logging.Options{
		Dir:          cfg.Logging.GetDir(),
		ConsoleLevel: level,
		FileLevel:    logging.DEBUG,
	})

	rules, err := catalog.LoadOrDefault(cfg.Catalog.GetCatalogPath())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	transform, err := metrics.NewTransform(rules, registry)
	if err != nil {
		return err
	}

	a := &app{
		cfg:       cfg,
		transform: transform,
		registry:  registry,
		out:       out,
		logger:    logging.GetCLILogger(),
	}

	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		return err
	}
	if *stats {
		return a.printStats()
	}
	return nil
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	a.logger.Debug("Команда %s %v", cmd, args)

	switch cmd {
	case "rotate", "rotate-reverse":
		return a.rotate(args, cmd == "rotate-reverse")
	case "flip":
		return a.flip(args)
	case "cycle":
		return a.cycle(args)
	case "match":
		return a.match(args)
	case "save":
		return a.withStore(func(ps *storage.PatternStore) error { return a.save(ctx, ps, args) })
	case "show":
		return a.withStore(func(ps *storage.PatternStore) error { return a.show(ctx, ps, args) })
	case "list":
		return a.withStore(func(ps *storage.PatternStore) error { return a.list(ctx, ps) })
	case "delete":
		return a.withStore(func(ps *storage.PatternStore) error { return a.remove(ctx, ps, args) })
	case "filter":
		return a.withStore(func(ps *storage.PatternStore) error { return a.filter(ctx, ps, args) })
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) rotate(args []string, reverse bool) error {
	if len(args) < 1 {
		return errUsage
	}
	b, err := parseBlock(args[0])
	if err != nil {
		return err
	}
	n, err := parseCount(args, 1, 1)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if reverse {
			b.Rotate90Reverse(a.transform)
		} else {
			b.Rotate90(a.transform)
		}
	}
	fmt.Fprintln(a.out, b)
	return nil
}

func (a *app) flip(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	b, err := parseBlock(args[0])
	if err != nil {
		return err
	}

	if len(args) < 2 {
		b.Flip(a.transform)
	} else {
		dir, err := block.ParseFlipDirection(args[1])
		if err != nil {
			return err
		}
		b.FlipDirection(a.transform, dir)
	}
	fmt.Fprintln(a.out, b)
	return nil
}

func (a *app) cycle(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	b, err := parseBlock(args[0])
	if err != nil {
		return err
	}
	inc, err := parseCount(args, 1, 1)
	if err != nil {
		return err
	}

	b.CycleData(a.transform, inc)
	fmt.Fprintln(a.out, b)
	return nil
}

func (a *app) match(args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	pattern, err := parsePattern(args[0])
	if err != nil {
		return err
	}

	for _, arg := range args[1:] {
		candidate, err := parsePattern(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\t%t\n", candidate, pattern.EqualsFuzzy(candidate))
	}
	return nil
}

func (a *app) withStore(fn func(ps *storage.PatternStore) error) error {
	ps, err := storage.NewPatternStore(a.cfg.Storage.GetDataDir())
	if err != nil {
		return err
	}
	defer func() {
		if err := ps.Close(); err != nil {
			a.logger.Warn("Ошибка закрытия хранилища: %v", err)
		}
	}()
	return fn(ps)
}

func (a *app) save(ctx context.Context, ps *storage.PatternStore, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	ids := make([]block.Identity, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parsePattern(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if err := ps.Save(ctx, args[0], ids); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved %s (%d)\n", args[0], len(ids))
	return nil
}

func (a *app) show(ctx context.Context, ps *storage.PatternStore, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	ids, found, err := ps.Load(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("набор %s не найден", args[0])
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

func (a *app) list(ctx context.Context, ps *storage.PatternStore) error {
	names, err := ps.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) remove(ctx context.Context, ps *storage.PatternStore, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := ps.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

// filter проверяет каждый блок по сохранённому набору шаблонов
func (a *app) filter(ctx context.Context, ps *storage.PatternStore, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	for _, arg := range args[1:] {
		candidate, err := parsePattern(arg)
		if err != nil {
			return err
		}
		ok, err := ps.MatchAny(ctx, args[0], candidate)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\t%t\n", candidate, ok)
	}
	return nil
}

// printStats выводит счётчики преобразований
func (a *app) printStats() error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("ошибка сбора метрик: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			op := ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "op" {
					op = lp.GetValue()
				}
			}
			lines = append(lines, fmt.Sprintf("%s{op=%q} %v", mf.GetName(), op, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
	return nil
}
