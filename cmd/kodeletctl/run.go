package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodelet/kodelet-go/kodelet"
)

func newRunCmd() *cobra.Command {
	var (
		model        string
		provider     string
		maxTurns     int
		resume       string
		follow       bool
		allowedTools []string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] <query>",
		Short: "Send a query and stream the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if resume != "" && follow {
				return errors.New("--resume cannot be used with --follow")
			}

			opts, err := clientOptions(cmd)
			if err != nil {
				return err
			}
			if model != "" {
				opts = append(opts, kodelet.WithModel(model))
			}
			if provider != "" {
				opts = append(opts, kodelet.WithProvider(provider))
			}
			if maxTurns > 0 {
				opts = append(opts, kodelet.WithMaxTurns(maxTurns))
			}
			if len(allowedTools) > 0 {
				opts = append(opts, kodelet.WithAllowedTools(allowedTools...))
			}
			if resume != "" {
				opts = append(opts, kodelet.WithResume(resume))
			}
			if follow {
				opts = append(opts, kodelet.WithFollow())
			}

			client, err := kodelet.New(opts...)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			stream, err := client.Query(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := cmd.ErrOrStderr()
			for ev := range stream.Events() {
				switch e := ev.(type) {
				case kodelet.TextDeltaEvent:
					fmt.Fprint(out, e.Delta)
				case kodelet.ToolUseEvent:
					if !quiet {
						fmt.Fprintf(errs, "\n[tool %s]\n", e.ToolName)
					}
				case kodelet.ToolResultEvent:
					if quiet {
						continue
					}
					if result, err := e.DecodeResult(); err == nil {
						printToolResult(errs, result)
					}
				}
			}
			fmt.Fprintln(out)

			if err := stream.Err(); err != nil {
				return err
			}
			if id := client.ConversationID(); id != "" && !quiet {
				fmt.Fprintf(errs, "conversation: %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "override the model")
	cmd.Flags().StringVar(&provider, "provider", "", "override the LLM provider")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 0, "cap the number of agent turns")
	cmd.Flags().StringVar(&resume, "resume", "", "resume an existing conversation by ID")
	cmd.Flags().BoolVar(&follow, "follow", false, "continue the most recent conversation")
	cmd.Flags().StringSliceVar(&allowedTools, "allowed-tools", nil, "restrict the agent to these tools")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print response text only")

	return cmd
}

// printToolResult renders a one-line summary for the tool results that
// have one; everything else stays silent.
func printToolResult(w io.Writer, result kodelet.ToolResult) {
	switch r := result.(type) {
	case kodelet.BashResult:
		fmt.Fprintf(w, "[exit %d in %s]\n", r.ExitCode, r.ExecutionTime.Round(0))
	case kodelet.FileEditResult:
		fmt.Fprintf(w, "[edited %s]\n", r.FilePath)
	case kodelet.FileWriteResult:
		fmt.Fprintf(w, "[wrote %s]\n", r.FilePath)
	case kodelet.BlockedResult:
		fmt.Fprintf(w, "[blocked %s: %s]\n", r.ToolName, r.Reason)
	}
}
