package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kodelet/kodelet-go/kodelet"
)

func newConversationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversation",
		Aliases: []string{"conversations", "conv"},
		Short:   "Manage stored conversations",
	}

	cmd.AddCommand(newConversationListCmd())
	cmd.AddCommand(newConversationShowCmd())
	cmd.AddCommand(newConversationDeleteCmd())
	cmd.AddCommand(newConversationForkCmd())
	return cmd
}

func newManager(cmd *cobra.Command) (*kodelet.ConversationManager, error) {
	opts, err := clientOptions(cmd)
	if err != nil {
		return nil, err
	}
	return kodelet.NewConversationManager(opts...)
}

// defaultFormat renders tables on terminals and tab-separated plain
// text everywhere else.
func defaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "plain"
}

func newConversationListCmd() *cobra.Command {
	var (
		opts       kodelet.ListOptions
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations in the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			summaries, err := manager.List(cmd.Context(), opts)
			if err != nil {
				return err
			}

			format := formatFlag
			if format == "" {
				format = defaultFormat()
			}
			return writeSummaries(cmd.OutOrStdout(), summaries, !noHeader, format)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of conversations")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by search term")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "filter by LLM provider")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "only conversations after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "only conversations before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.SortBy, "sort-by", "updated_at", "sort field (updated_at, created_at, messages)")
	cmd.Flags().StringVar(&opts.SortOrder, "sort-order", "desc", "sort order (asc, desc)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "output format (table, plain, json)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the header row")

	return cmd
}

func newConversationShowCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Show a conversation's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			conv, err := manager.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeConversation(cmd.OutOrStdout(), conv, formatFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "output format (text, json)")
	return cmd
}

func newConversationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			if err := manager.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newConversationForkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fork [conversation-id]",
		Short: "Fork a conversation (most recent if no ID given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd)
			if err != nil {
				return err
			}

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			newID, err := manager.Fork(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newID)
			return nil
		},
	}
}
