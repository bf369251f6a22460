package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// exitError carries the process exit code of a failed command
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newExitError(code int, msg string, err error) *exitError {
	return &exitError{code: code, msg: msg, err: err}
}

// streams are the standard streams of one CLI invocation
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// engineFlags are shared by the render and validate commands
type engineFlags struct {
	templateText    string
	templateFile    string
	configPath      string
	culture         string
	caseInsensitive bool
	onError         string
	verbose         bool
	storeDriver     string
	storeDSN        string
	languages       []string
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &streams{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCommand(s)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintf(stderr, FmtError, ee.Error())
		return ee.code
	}
	// flag and argument errors reported by cobra
	fmt.Fprintf(stderr, FmtError, err.Error())
	return ExitCodeUsageError
}

func newRootCommand(s *streams) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         HelpRootShort,
		Long:          HelpRootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRenderCommand(s),
		newValidateCommand(s),
		newVersionCommand(s),
	)
	return root
}

// addEngineFlags registers the template and engine flags on cmd
func addEngineFlags(cmd *cobra.Command, f *engineFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.templateText, FlagTemplate, FlagTemplateShort, "", "template text")
	flags.StringVarP(&f.templateFile, FlagFile, FlagFileShort, "", `template file ("-" for stdin)`)
	flags.StringVarP(&f.configPath, FlagConfig, FlagConfigShort, "", "settings file (YAML or TOML)")
	flags.StringVar(&f.culture, FlagCulture, "", "culture as BCP 47 tag, e.g. en-US or de")
	flags.BoolVar(&f.caseInsensitive, FlagCaseInsensitive, false, "match selectors ignoring case")
	flags.StringVar(&f.onError, FlagOnError, "", "format error action: throw, maintain, ignore or output")
	flags.BoolVarP(&f.verbose, FlagVerbose, FlagVerboseShort, false, "log engine activity to stderr")
	flags.StringVar(&f.storeDriver, FlagStoreDriver, "", "resource store driver: memory, filesystem or postgres")
	flags.StringVar(&f.storeDSN, FlagStoreDSN, "", "resource store connection string")
	flags.StringSliceVar(&f.languages, FlagLanguages, nil, "languages of the localized resources, the first is the fallback")
}
