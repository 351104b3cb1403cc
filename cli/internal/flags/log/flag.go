// Package log configures the slog logger of scenectl from its persistent flags.
//
// scenectl writes scene files to standard output, so logs go to standard error
// unless --logoutput says otherwise. The default level is warn: a plain
// "scenectl encode > scene.yaml" prints nothing but the scene. Use --loglevel info
// to see the digest of every written scene and --loglevel debug to follow the
// encoder and decoder through every component.
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/enum"
)

const (
	FormatFlagName = "logformat"
	FormatText     = "text"
	FormatJSON     = "json"
)

const (
	LevelFlagName = "loglevel"
	LevelWarn     = "warn"
	LevelDebug    = "debug"
	LevelInfo     = "info"
	LevelError    = "error"
)

const (
	OutputFlagName = "logoutput"
	OutputStderr   = "stderr"
	OutputStdout   = "stdout"
)

// the first entry of every option list is the flag default.
var (
	formats = []string{FormatText, FormatJSON}
	outputs = []string{OutputStderr, OutputStdout}
	levels  = map[string]slog.Level{
		LevelWarn:  slog.LevelWarn,
		LevelDebug: slog.LevelDebug,
		LevelInfo:  slog.LevelInfo,
		LevelError: slog.LevelError,
	}
	levelOrder = []string{LevelWarn, LevelDebug, LevelInfo, LevelError}
)

// RegisterLoggingFlags adds --logformat, --loglevel and --logoutput to the flag set.
// scenectl registers them as persistent flags of the root command.
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, formats, `format of the log records
   text: key=value lines for reading in a terminal (default)
   json: one JSON object per record, as consumed by the scenectl test harness`)
	enum.Var(flagset, LevelFlagName, levelOrder, `minimum level of the log records
   warn:  skipped config files and other problems that do not stop the command (default)
   info:  also written scenes with their digest and entity count
   debug: also loaded configuration, registered types and every decoded scene
   error: only failures`)
	enum.Var(flagset, OutputFlagName, outputs, `destination of the log records
   stderr: standard error, scenes written to standard output stay clean (default)
   stdout: the command output, interleaved with tables and scenes`)
}

// GetBaseLogger builds the logger selected by the logging flags of cmd.
// Records go to the command's error or output writer, so tests can capture them.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := loggerLevelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log format: %w", err)
	}
	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log output: %w", err)
	}

	var w io.Writer
	switch output {
	case OutputStderr:
		w = cmd.ErrOrStderr()
	case OutputStdout:
		w = cmd.OutOrStdout()
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

func loggerLevelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	name, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	level, ok := levels[name]
	if !ok {
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}
