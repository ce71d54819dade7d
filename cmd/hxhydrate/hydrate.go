package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pthm/hxhydrate"
	"github.com/spf13/cobra"
)

func hydrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate [file|-]",
		Short: "Resolve every placeholder of a page and print the result",
		Long: `Hydrate parses an HTML page (from a file, or stdin when the argument is
omitted or "-"), resolves its placeholders recursively against the
component server and prints the resulting document.

Failed components are rendered inline and reported on stderr; they do not
fail the command.`,
		Example: `  hxhydrate hydrate --base-url http://localhost:8080/ page.html
  curl -s http://localhost:8080/ | hxhydrate hydrate --base-url http://localhost:8080/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			eng := hxhydrate.New(doc, a.engineOptions()...)
			if err := eng.Hydrate(cmd.Context(), nil); err != nil {
				return err
			}
			return doc.Render(cmd.OutOrStdout())
		},
	}
}

func triggerCmd(a *app) *cobra.Command {
	var (
		targetID string
		payload  string
		noNested bool
	)

	cmd := &cobra.Command{
		Use:   "trigger --id <id> --payload <json> [file|-]",
		Short: "Hydrate a page, reload one component with a new payload and print the result",
		Example: `  hxhydrate trigger --base-url http://localhost:8080/ --id viewer --payload '{"id":"3"}' page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetID == "" {
				return errors.New("--id is required")
			}
			if payload != "" && !json.Valid([]byte(payload)) {
				return errors.New("--payload is not valid JSON")
			}

			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			eng := hxhydrate.New(doc, a.engineOptions()...)
			ctx := cmd.Context()
			if err := eng.Hydrate(ctx, nil); err != nil {
				return err
			}

			token := hxhydrate.EncodeParam(payload)
			var out hxhydrate.Outcome
			if noNested {
				out = eng.Trigger(ctx, targetID, token)
			} else {
				out, err = eng.TriggerAndHydrate(ctx, targetID, token)
				if err != nil {
					return err
				}
			}
			if errors.Is(out.Err, hxhydrate.ErrTargetNotFound) {
				return fmt.Errorf("no element with id %q", targetID)
			}
			return doc.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&targetID, "id", "", "Id of the placeholder to reload")
	cmd.Flags().StringVar(&payload, "payload", "", "New JSON payload for the placeholder")
	cmd.Flags().BoolVar(&noNested, "no-nested", false, "Do not hydrate the reloaded content")

	return cmd
}

// readDocument parses the page named by args, or stdin.
func readDocument(cmd *cobra.Command, args []string) (*hxhydrate.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	doc, err := hxhydrate.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}
