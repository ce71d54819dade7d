package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pthm/hxhydrate"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "encode <json>",
		Short: "Encode JSON text as a data-object token",
		Example: `  hxhydrate encode '{"id":"42"}'
  # eyJpZCI6IjQyIn0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if !raw && !json.Valid([]byte(text)) {
				return errors.New("argument is not valid JSON (use --raw to encode arbitrary text)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), hxhydrate.EncodeParam(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Encode the argument without checking that it is JSON")

	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a data-object token back to its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := hxhydrate.DecodeParam(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
