package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OFFIS-RIT/letternet/internal/records"
	"github.com/OFFIS-RIT/letternet/internal/util"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/loader"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
	"github.com/OFFIS-RIT/letternet/pkg/logger/console"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	source  string
	debug   bool
	jsonLog bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "analyze",
		Short:         "Analyze letter correspondence networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
				Debug:  opts.debug,
				JSON:   opts.jsonLog,
				Output: cmd.ErrOrStderr(),
			}))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", util.GetEnv("RECORDS_SOURCE"), "record source (path, file://path or s3://key)")
	flags.BoolVar(&opts.debug, "debug", util.GetEnvBool("DEBUG", false), "enable debug logging")
	flags.BoolVar(&opts.jsonLog, "json-log", false, "write logs as JSON")

	cmd.AddCommand(
		newViewCommand(opts),
		newAllCommand(opts),
		newTimelineCommand(opts),
		newUploadCommand(),
		newListCommand(),
	)
	return cmd
}

// open loads the record set named by --source.
func (o *rootOptions) open(cmd *cobra.Command) (*common.RecordSet, error) {
	src, err := records.Resolve(cmd.Context(), o.source)
	if err != nil {
		return nil, err
	}
	return loader.Open(cmd.Context(), src)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
