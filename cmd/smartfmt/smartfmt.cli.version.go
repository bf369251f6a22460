package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func newVersionCommand(s *streams) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: HelpVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(format, s)
		},
	}
	cmd.Flags().StringVar(&format, FlagFormat, FlagDefaultFormat, "output format: text or json")
	return cmd
}

func runVersion(format string, s *streams) error {
	v := getVersionInfo()
	switch format {
	case OutputFormatText:
		fmt.Fprintf(s.stdout, VersionTextTemplate+"\n", v.Version, v.Commit, v.BuildTime, v.GoVersion)
		return nil
	case OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgJSONMarshalFailed, err)
		}
		fmt.Fprintln(s.stdout, string(data))
		return nil
	default:
		return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(format))
	}
}

// getVersionInfo prefers values set at link time and falls back to the
// module build information.
func getVersionInfo() versionOutput {
	v := versionOutput{
		Version:   version,
		Commit:    commit,
		BuildTime: date,
		GoVersion: runtime.Version(),
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if v.Version == VersionUnknown && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if v.Commit == VersionUnknown {
				v.Commit = setting.Value
			}
		case "vcs.time":
			if v.BuildTime == VersionUnknown {
				v.BuildTime = setting.Value
			}
		}
	}
	return v
}
