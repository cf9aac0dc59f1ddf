// Package cli implements the daylist command line. Running daylist without a
// subcommand launches the TUI.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"daylist/internal/clierr"
	"daylist/internal/config"
	"daylist/internal/logs"
	"daylist/internal/tasks/api"
	"daylist/internal/tasks/service"
	"daylist/internal/tui"
)

// env is the state shared by every command of one invocation.
type env struct {
	flags  config.CLIFlags
	json   bool
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	cfg *config.Config
}

func (e *env) client() *api.Client {
	return api.NewClient(e.cfg.APIURL, api.WithToken(e.cfg.Token), api.WithTimeout(e.cfg.Timeout))
}

// controller builds a controller with no notifier: the CLI reports errors
// through its exit code instead.
func (e *env) controller() *service.Controller {
	return service.NewController(e.client(), nil, service.WithClock(e.now))
}

func (e *env) loadConfig() error {
	cfg, err := config.Load(e.flags)
	if err != nil {
		return clierr.New(clierr.ConfigError, err.Error())
	}
	e.cfg = cfg

	if err := logs.Initialize(cfg.Dir()); err != nil {
		fmt.Fprintf(e.stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	if err := config.EnsureConfigFile(cfg.Path); err != nil {
		logs.Logger.Printf("Warning: could not create config file: %v", err)
	}
	return nil
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "daylist",
		Short: "Tasks grouped by day, in your terminal",
		Long: `daylist shows your tasks grouped into date buckets, with an Expired bucket
for everything overdue. Run daylist without arguments to open the TUI.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return e.loadConfig()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(e)
		},
	}
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.APIURL, "api", "", "task API base URL (default "+api.DefaultBaseURL+")")
	pf.StringVar(&e.flags.ConfigPath, "config", "", "config file (default ~/.config/daylist/config.yaml)")
	pf.StringVar(&e.flags.Token, "token", "", "API bearer token")
	pf.DurationVar(&e.flags.Timeout, "timeout", 0, "API request timeout")
	pf.BoolVar(&e.json, "json", false, "output as JSON")

	root.AddCommand(
		newListCmd(e),
		newAddCmd(e),
		newEditCmd(e),
		newDoneCmd(e),
		newDeleteCmd(e),
		newMoveCmd(e),
		newUndoCmd(e),
		newOrderCmd(e),
		newServeCmd(e),
	)
	return root
}

func runTUI(e *env) error {
	logs.Logger.Println("Starting app in TUI mode")
	p := tea.NewProgram(tui.NewAppModel(e.cfg, e.client()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return clierr.Newf(clierr.InternalError, "running program: %v", err)
	}
	return nil
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	defer logs.Close()
	return run(os.Args[1:], os.Stdout, os.Stderr, time.Now)
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	e := &env{stdout: stdout, stderr: stderr, now: now}
	root := newRootCmd(e)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	cliErr := clierr.From(err)
	// Flag and argument errors come from cobra itself.
	if cliErr.Code == clierr.InternalError && !isRuntimeError(err) {
		cliErr.Code = clierr.InvalidInput
	}
	logs.Logger.Printf("Command failed: %s: %s", cliErr.Code, cliErr.Message)

	if e.json {
		writeJSON(stdout, map[string]any{"error": cliErr})
	} else {
		fmt.Fprintln(stderr, "Error:", cliErr.Message)
	}
	return cliErr.ExitCode()
}

// runtimeError marks failures that happened while a command was running, as
// opposed to cobra rejecting the command line.
type runtimeError struct{ err error }

func (r runtimeError) Error() string { return r.err.Error() }
func (r runtimeError) Unwrap() error { return r.err }

func isRuntimeError(err error) bool {
	var r runtimeError
	return errors.As(err, &r)
}

// fail wraps a command error for run to classify.
func fail(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return runtimeError{err}
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logs.Logger.Printf("Writing JSON output: %v", err)
	}
}
