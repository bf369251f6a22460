package main

import (
	"fmt"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/spf13/cobra"
)

func newValidateCommand(s *streams) *cobra.Command {
	f := &engineFlags{}
	cmd := &cobra.Command{
		Use:     CmdNameValidate,
		Short:   HelpValidateShort,
		Example: HelpValidateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(f, s)
		},
	}
	addEngineFlags(cmd, f)
	return cmd
}

// runValidate parses the template with the registered formatters and lists
// every issue found.
func runValidate(f *engineFlags, s *streams) error {
	template, err := readTemplate(f, s.stdin)
	if err != nil {
		return err
	}

	engine, release, err := buildEngine(f, s.stderr,
		smartfmt.WithParseErrorAction(smartfmt.ErrorActionThrowError),
		smartfmt.WithParseCache(0),
	)
	if err != nil {
		return err
	}
	defer release()

	format, err := engine.ParseFormat(template)
	if err != nil {
		for _, issue := range smartfmt.Issues(err) {
			fmt.Fprintf(s.stdout, FmtValidationIssue, issue.Index, issue.Message)
		}
		return newExitError(ExitCodeValidationError, ErrMsgValidationFailed, err)
	}

	fmt.Fprintln(s.stdout, MsgTemplateValid)
	fmt.Fprintf(s.stdout, FmtPlaceholderCount, countPlaceholders(format))
	return nil
}

// countPlaceholders counts placeholders including nested ones
func countPlaceholders(format *smartfmt.Format) int {
	if format == nil {
		return 0
	}
	count := 0
	for _, item := range format.Items {
		if ph, ok := item.(*smartfmt.Placeholder); ok {
			count += 1 + countPlaceholders(ph.Format)
		}
	}
	return count
}
