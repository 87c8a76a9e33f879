package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flowshell/internal/ctxlog"
)

// defaultJobName is used when :run is called without an explicit name.
const defaultJobName = "interactive-job"

// Run drives the interactive loop until the input ends or the user quits.
// Plain lines grow the session's compiled state; commands start with ':'.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	fmt.Fprintf(a.outW, "flowshell session %s, engine %s\n", a.sess.ID(), a.shellCfg.Endpoint())
	fmt.Fprintln(a.outW, `Type source lines to grow the session, ":run <job>" to submit, ":help" for help.`)

	scanner := bufio.NewScanner(in)
	unit := 0
	for {
		fmt.Fprint(a.outW, "flow> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q":
			a.logger.Debug("Quit requested.")
			return nil
		case line == ":help":
			a.printHelp()
		case line == ":deps":
			a.printDependencies()
		case line == ":session":
			fmt.Fprintf(a.outW, "session %s: %d compiled unit(s)\n", a.sess.ID(), a.sess.ArtifactCount())
		case strings.HasPrefix(line, ":run"):
			a.runJob(ctx, strings.TrimSpace(strings.TrimPrefix(line, ":run")))
		case strings.HasPrefix(line, ":"):
			fmt.Fprintf(a.outW, "unknown command %q, try :help\n", line)
		default:
			unit++
			name := fmt.Sprintf("repl/unit-%04d", unit)
			if err := a.sess.Define(name, []byte(line+"\n")); err != nil {
				fmt.Fprintf(a.outW, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(a.outW, "defined %s\n", name)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return scanner.Err()
}

// runJob submits one job through the session-bound environment and reports
// the outcome. Failures are reported to the user and the loop continues;
// resubmission is the user's call, never automatic.
func (a *App) runJob(ctx context.Context, jobName string) {
	if jobName == "" {
		jobName = defaultJobName
	}

	a.logger.Info("Submitting job.", "name", jobName)
	result, err := a.environment.Execute(ctx, jobName)
	if err != nil {
		fmt.Fprintf(a.outW, "submission failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.outW, "job %s %s after %s\n", result.JobID, strings.ToLower(string(result.State)), result.Runtime)
}

func (a *App) printDependencies() {
	deps := a.environment.Dependencies()
	if len(deps) == 0 {
		fmt.Fprintln(a.outW, "no explicit dependency archives")
		return
	}
	for _, dep := range deps {
		fmt.Fprintln(a.outW, dep.Path())
	}
}

func (a *App) printHelp() {
	fmt.Fprint(a.outW, `Commands:
  :run [name]   package the session and submit it as a job
  :deps         list the explicit dependency archives
  :session      show session id and compiled unit count
  :quit, :q     leave the shell
Any other line is handed to the session compiler.
`)
}
