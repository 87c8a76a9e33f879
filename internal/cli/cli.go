package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flowshell/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// jarList collects repeated -j/--jar flags in the order they appear.
type jarList []string

func (j *jarList) String() string {
	return strings.Join(*j, ",")
}

func (j *jarList) Set(value string) error {
	*j = append(*j, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating the program should exit cleanly (help requested), or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("flowshell", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowshell - an interactive shell for a remote dataflow cluster.

Usage:
  flowshell [options] CONFIG_PATH

Arguments:
  CONFIG_PATH
    Path to the shell's .hcl configuration file.

Options:
`)
		flagSet.PrintDefaults()
	}

	var jars jarList
	configFlag := flagSet.String("config", "", "Path to the shell configuration file.")
	flagSet.Var(&jars, "jar", "Path to a dependency archive to attach to every job. Repeatable.")
	flagSet.Var(&jars, "j", "Path to a dependency archive (shorthand). Repeatable.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'. Overrides the config file.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'. Overrides the config file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *configFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath: path,
		JarPaths:   jars,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
