package main

import (
	"github.com/spf13/cobra"
)

// renderFlags holds the render command configuration
type renderFlags struct {
	engineFlags
	dataText   string
	dataFile   string
	outputPath string
}

func newRenderCommand(s *streams) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:     CmdNameRender + " [args...]",
		Short:   HelpRenderShort,
		Example: HelpRenderExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(f, args, s)
		},
	}
	addEngineFlags(cmd, &f.engineFlags)
	flags := cmd.Flags()
	flags.StringVarP(&f.dataText, FlagData, FlagDataShort, "", "inline JSON or YAML data, the first argument")
	flags.StringVarP(&f.dataFile, FlagDataFile, FlagDataFileShort, "", "data file (.json, .yaml, .toml or .xml)")
	flags.StringVarP(&f.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")
	return cmd
}

// runRender formats the template with the data followed by the positional
// arguments as strings.
func runRender(f *renderFlags, positional []string, s *streams) error {
	template, err := readTemplate(&f.engineFlags, s.stdin)
	if err != nil {
		return err
	}

	data, err := loadData(f.dataText, f.dataFile)
	if err != nil {
		return err
	}
	args := make([]any, 0, len(positional)+1)
	if data != nil {
		args = append(args, data)
	}
	for _, p := range positional {
		args = append(args, p)
	}

	engine, release, err := buildEngine(&f.engineFlags, s.stderr)
	if err != nil {
		return err
	}
	defer release()

	result, err := engine.Format(template, args...)
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgFormatFailed, err)
	}

	if f.outputPath == FlagDefaultOutput {
		result += "\n"
	}
	if err := writeOutput(f.outputPath, []byte(result), s.stdout); err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}
