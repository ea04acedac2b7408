package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Sukhavati-Labs/go-sysutil/config"
	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// setupExitCode names the command annotation holding the exit code used
// when configuration or logging setup fails. Commands without it exit 1.
const setupExitCode = "sysutil/setup-exit-code"

// exitError carries a process exit code. A nil err means the command has
// already reported the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

type rootOptions struct {
	configFile string
	logDir     string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd builds the command tree. Every call returns fresh commands
// and options.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.NewConfig()}

	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:           filepath.Base(os.Args[0]),
		Short:         "Command line utilities for files and free disk space",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				return &exitError{code: setupCode(cmd), err: err}
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "INI config file with [log], [freespace] and [journal] sections")
	pf.StringVar(&opts.logDir, "log-dir", "", "directory for rotating log files")
	pf.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level: panic, fatal, error, warn, info, debug, trace")

	rootCmd.AddCommand(
		newFreespaceCmd(opts),
		newCatCmd(),
		newCipherCmd(),
		newCopyCmd(),
		newPwdCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the config file, applies explicit flags and initializes
// logging.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.configFile != "" {
		if err := config.LoadFile(o.cfg, o.configFile); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-dir") {
		o.cfg.Log.Dir = o.logDir
	}
	if flags.Changed("log-level") {
		o.cfg.Log.Level = o.logLevel
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	maxAge := time.Duration(o.cfg.Log.MaxAgeDays) * 24 * time.Hour
	if err := logging.Init(o.cfg.Log.Dir, logging.DefaultFilename, o.cfg.Log.Level, maxAge); err != nil {
		return err
	}
	logging.CPrint(logging.DEBUG, "command started", logging.LogFormat{"cmd": cmd.CommandPath(), "config": o.configFile})
	return nil
}

func setupCode(cmd *cobra.Command) int {
	if s, ok := cmd.Annotations[setupExitCode]; ok {
		if code, err := strconv.Atoi(s); err == nil {
			return code
		}
	}
	return 1
}

// execute runs root with args and returns the process exit code. Errors
// are printed to the command's error stream.
func execute(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(root.ErrOrStderr(), "ERROR: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "ERROR: %v\n", err)
	return 1
}

// Execute runs the sysutil command line and returns the process exit code.
func Execute() int {
	return execute(NewRootCmd(), os.Args[1:])
}
