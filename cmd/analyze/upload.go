package main

import (
	"fmt"
	"os"

	"github.com/OFFIS-RIT/letternet/internal/queue"
	"github.com/OFFIS-RIT/letternet/internal/records"
	"github.com/OFFIS-RIT/letternet/internal/storage"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/spf13/cobra"
)

func newUploadCommand() *cobra.Command {
	var prefix string
	notify := queue.Enabled()
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a catalogue document to the bucket and announce it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			parsed, err := records.ParserFor(args[0])(data)
			if err != nil {
				return fmt.Errorf("refusing to upload %s: %w", args[0], err)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			client, err := storage.NewS3Client(ctx)
			if err != nil {
				return err
			}
			key, err := storage.PutFile(ctx, client, prefix, args[0], file)
			if err != nil {
				return err
			}
			logger.Info("Uploaded document", "key", key, "records", len(parsed))

			if !notify {
				return nil
			}
			conn, err := queue.Init(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()
			ch, err := conn.Channel()
			if err != nil {
				return fmt.Errorf("failed to open channel: %w", err)
			}
			defer ch.Close()

			return queue.PublishRecordsUpdated(ctx, ch, queue.RecordsUpdatedMsg{
				Message: "Document uploaded",
				Origin:  "cli",
				Key:     key,
				Records: len(parsed),
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the bucket")
	cmd.Flags().BoolVar(&notify, "notify", notify, "publish records.updated after the upload")
	return cmd
}

func newListCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the documents stored in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := storage.NewS3Client(cmd.Context())
			if err != nil {
				return err
			}
			keys, err := storage.ListFilesWithPrefix(cmd.Context(), client, prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix to list")
	return cmd
}
