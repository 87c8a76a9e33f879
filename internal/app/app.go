package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vk/flowshell/internal/config"
	"github.com/vk/flowshell/internal/engine"
	"github.com/vk/flowshell/internal/env"
	"github.com/vk/flowshell/internal/shellsession"
)

// App encapsulates the shell's dependencies, configuration, and lifecycle.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	shellCfg    *config.ShellConfig
	sess        *shellsession.Session
	client      engine.Client
	environment *env.ShellEnvironment
}

// NewApp is the constructor for the shell application. It returns a fully
// wired App holding its own isolated logger, session, engine client and
// execution environment. A nil client means "build the REST client from the
// configuration"; tests inject their own. Critical startup errors panic; the
// entrypoint recovers them into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, client engine.Client) *App {
	shellCfg, err := config.Load(appConfig.ConfigPath, os.Environ())
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	logLevel := shellCfg.Log.Level
	if appConfig.LogLevel != "" {
		logLevel = appConfig.LogLevel
	}
	logFormat := shellCfg.Log.Format
	if appConfig.LogFormat != "" {
		logFormat = appConfig.LogFormat
	}
	logger := newLogger(logLevel, logFormat, outW)
	logger.Debug("Logger configured successfully.")

	sess, err := shellsession.New(shellCfg.Session.WorkDir, nil)
	if err != nil {
		panic(fmt.Errorf("failed to create session: %w", err))
	}
	logger.Debug("Session created.", "session_id", sess.ID())

	if client == nil {
		// Validated during config loading.
		timeout, _ := time.ParseDuration(shellCfg.Engine.RequestTimeout)
		client = engine.NewRESTClient(shellCfg.Endpoint(), timeout)
	}

	deps := make([]string, 0, len(shellCfg.DependencyArchives)+len(appConfig.JarPaths))
	deps = append(deps, shellCfg.DependencyArchives...)
	deps = append(deps, appConfig.JarPaths...)

	environment, err := env.NewShellEnvironment(shellCfg.JobConfiguration(), sess, client, deps...)
	if err != nil {
		sess.Close()
		panic(fmt.Errorf("failed to create execution environment: %w", err))
	}
	logger.Debug("Execution environment ready.", "dependency_count", len(environment.Dependencies()))

	// From here on, nothing else in the process may redefine the default
	// environment until this shell tears down.
	env.DisableAllOtherEnvironments()

	return &App{
		outW:        outW,
		logger:      logger,
		shellCfg:    shellCfg,
		sess:        sess,
		client:      client,
		environment: environment,
	}
}

// Environment returns the app's execution environment. This is primarily for
// testing.
func (a *App) Environment() *env.ShellEnvironment {
	return a.environment
}

// Session returns the app's interactive session. This is primarily for
// testing.
func (a *App) Session() *shellsession.Session {
	return a.sess
}

// Close tears the shell down: the guard is reset so a later session may
// install its own environment, and the session scratch space is removed.
func (a *App) Close() error {
	env.ResetContextEnvironments()

	var firstErr error
	if err := a.sess.Close(); err != nil {
		firstErr = err
	}
	if err := a.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
