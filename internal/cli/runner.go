package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tarefas/internal/client"
	"github.com/Makepad-fr/tarefas/internal/config"
	"github.com/Makepad-fr/tarefas/internal/controller"
	"github.com/Makepad-fr/tarefas/internal/logging"
	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/server"
	"github.com/Makepad-fr/tarefas/internal/store"
	"github.com/Makepad-fr/tarefas/internal/store/jsonstore"
	"github.com/Makepad-fr/tarefas/internal/store/sqlitestore"
	"github.com/Makepad-fr/tarefas/internal/tui"
	"github.com/Makepad-fr/tarefas/internal/ui"
)

// Options carry what the root command resolved.
type Options struct {
	Context context.Context
	Config  *config.Config
	// In answers confirmation prompts; defaults to os.Stdin.
	In io.Reader
}

func (o Options) ctx() context.Context {
	if o.Context != nil {
		return o.Context
	}
	return context.Background()
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// No arguments starts the interactive UI.
func Run(args []string, opt Options) int {
	if opt.Config == nil {
		ui.Fail("internal: no configuration")
		return 1
	}
	ui.SetTheme(opt.Config.Theme)
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if len(args) == 0 {
		return doUI(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "ui":
		return doUI(opt)
	case "ls":
		return doList(opt)
	case "add":
		return doAdd(a, opt)
	case "rm":
		return doRemove(a, opt)
	case "edit":
		if len(a) != 1 {
			ui.Fail("usage: tarefas edit <id>")
			return 2
		}
		return doEdit(model.ID(a[0]), opt)
	case "serve":
		return doServe(a, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Out, `tarefas - task list client for a /tarefas REST store

Usage:
  tarefas [root flags] [subcommand] [args]

Root flags:
  -config <file>     TOML config file
  -api <url>         backing store URL (default http://localhost:3000)
  -theme light|dark  color theme
  -log-level <lvl>   debug, info, warn or error

Subcommands:
  ui                           Interactive list (default)
  ls                           Print all tasks
  add -t <titulo> -d <desc>    Create a task dated today
  rm [-y] <id>                 Delete a task (asks for confirmation)
  edit <id>                    Not implemented yet
  serve [-addr] [-backend] [-data]
                               Run a local backing store

Examples:
  tarefas serve -backend sqlite
  tarefas add -t "Buy milk" -d "2% low-fat"
  tarefas rm 3
`)
}

// -------------- wiring ----------------

// newController builds a controller over the HTTP client.
func newController(opt Options, logger *log.Logger) (*controller.Controller, error) {
	c, err := client.New(opt.Config.APIURL)
	if err != nil {
		return nil, err
	}
	return controller.New(c, controller.WithLogger(logger)), nil
}

// stderrLogger is the diagnostic channel for non-interactive commands.
func stderrLogger(cfg *config.Config, prefix string) (*log.Logger, func() error, error) {
	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Prefix: prefix}
	if cfg.LogFile != "" {
		return logging.OpenFile(cfg.LogFile, opts)
	}
	return logging.New(ui.Err, opts), func() error { return nil }, nil
}

// -------------- subcommand impls ----------------

func doUI(opt Options) int {
	path := opt.Config.LogFile
	if path == "" {
		path = config.DefaultTUILog
	}
	logger, closeLog, err := logging.OpenFile(path, logging.Options{
		Level: opt.Config.LogLevel, Format: opt.Config.LogFormat, Prefix: "tarefas",
	})
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctrl, err := newController(opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := tui.Run(opt.ctx(), ctrl, opt.Config.Theme == "dark"); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

func doList(opt Options) int {
	logger, closeLog, err := stderrLogger(opt.Config, "tarefas")
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctrl, err := newController(opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := ctrl.LoadTasks(opt.ctx()); err != nil {
		ui.Fail("não foi possível carregar as tarefas")
		return 1
	}
	printView(ctrl.View())
	return 0
}

func doAdd(args []string, opt Options) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	titulo := fs.String("t", "", "titulo")
	descricao := fs.String("d", "", "descricao")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, closeLog, err := stderrLogger(opt.Config, "tarefas")
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctrl, err := newController(opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := ctrl.CreateTask(opt.ctx(), *titulo, *descricao); err != nil {
		if errors.Is(err, controller.ErrValidation) {
			ui.Fail(err.Error())
			return 2
		}
		ui.Fail("não foi possível cadastrar a tarefa")
		return 1
	}
	ui.OK("tarefa adicionada")
	printView(ctrl.View())
	return 0
}

func doRemove(args []string, opt Options) int {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		ui.Fail("usage: tarefas rm [-y] <id>")
		return 2
	}
	id := model.ID(strings.TrimSpace(fs.Arg(0)))

	logger, closeLog, err := stderrLogger(opt.Config, "tarefas")
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctrl, err := newController(opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}

	confirmed := false
	confirm := func(prompt string) bool {
		if *yes {
			confirmed = true
			return true
		}
		confirmed = askYesNo(opt.In, prompt)
		return confirmed
	}
	if err := ctrl.DeleteTask(opt.ctx(), id, confirm); err != nil {
		ui.Fail("não foi possível excluir a tarefa " + id.String())
		return 1
	}
	if !confirmed {
		fmt.Fprintln(ui.Out, ui.C(ui.Current().Muted, "nada foi excluído"))
		return 0
	}
	ui.OK("tarefa excluída")
	printView(ctrl.View())
	return 0
}

func doEdit(id model.ID, opt Options) int {
	logger, closeLog, err := stderrLogger(opt.Config, "tarefas")
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctrl, err := newController(opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := ctrl.Dispatch(controller.Action{Affordance: controller.AffordanceEdit, ID: id}); err != nil {
		ui.Notice(err.Error())
		return 1
	}
	return 0
}

func doServe(args []string, opt Options) int {
	sc := opt.Config.Server
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	fs.StringVar(&sc.Addr, "addr", sc.Addr, "listen address")
	fs.StringVar(&sc.Backend, "backend", sc.Backend, "json or sqlite")
	fs.StringVar(&sc.Data, "data", sc.Data, "data file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.New(ui.Err, logging.Options{
		Level: opt.Config.LogLevel, Format: opt.Config.LogFormat, Prefix: "store", Timestamp: true,
	})

	st, err := openStore(opt.ctx(), sc)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	defer st.Close()
	logger.Info("store opened", "backend", sc.Backend, "data", sc.DataPath())

	h := server.NewHandler(st, logger)
	if err := server.ListenAndServe(opt.ctx(), sc.Addr, h.Router(), logger); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

func openStore(ctx context.Context, sc config.ServerConfig) (store.Store, error) {
	switch sc.Backend {
	case "json", "":
		return jsonstore.New(sc.DataPath())
	case "sqlite":
		return sqlitestore.Open(ctx, sc.DataPath())
	}
	return nil, fmt.Errorf("unknown backend %q (want json or sqlite)", sc.Backend)
}

// askYesNo prints prompt and reads one answer; only s/sim/y/yes confirm.
func askYesNo(in io.Reader, prompt string) bool {
	fmt.Fprint(ui.Out, prompt+" [s/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(ui.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// -------------- rendering helpers --------------

const cardWidth = 60

func printView(v controller.View) {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d",
		ui.C(t.Title, "Tarefas"),
		ui.C(t.Accent, "Total"), len(v.Cards),
	)

	lines := []string{header, ""}
	if v.Empty() {
		lines = append(lines, ui.C(t.Muted, v.Message))
	} else {
		lines = append(lines, cardLines(v.Cards)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tarefas add -t \"Buy milk\" -d \"2% low-fat\"`"))
	ui.Panel(lines)
}

func cardLines(cards []controller.Card) []string {
	t := ui.Current()
	var out []string
	for i, c := range cards {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, ui.C(t.Title, c.Titulo))
		for _, ln := range ui.Clamp(c.Descricao, cardWidth, 3) {
			out = append(out, ui.C(t.Body, ln))
		}
		out = append(out, ui.C(t.Muted, c.Data+" · #"+c.ID.String()))
	}
	return out
}
