package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kodelet/kodelet-go/kodelet"
)

func writeSummaries(w io.Writer, items []kodelet.ConversationSummary, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "table":
		return writeSummariesTable(w, items, includeHeader)
	case "plain":
		return writeSummariesPlain(w, items, includeHeader)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSummariesPlain(w io.Writer, items []kodelet.ConversationSummary, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "id\tupdated_at\tprovider\tmessages\tcost\tpreview"); err != nil {
			return err
		}
	}
	for _, item := range items {
		line := fmt.Sprintf("%s\t%s\t%s\t%d\t%.4f\t%s",
			item.ID,
			formatTimestamp(item.UpdatedAt),
			item.Provider,
			item.MessageCount,
			item.TotalCost,
			escapeNewlines(item.Preview),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSummariesTable(w io.Writer, items []kodelet.ConversationSummary, includeHeader bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 60},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"ID", "Updated", "Provider", "Messages", "Cost", "Preview"})
	}

	for _, item := range items {
		tw.AppendRow(table.Row{
			item.ID,
			formatTimestamp(item.UpdatedAt),
			item.Provider,
			item.MessageCount,
			fmt.Sprintf("%.4f", item.TotalCost),
			escapeNewlines(item.Preview),
		})
	}

	if len(items) == 0 {
		tw.AppendRow(table.Row{"(no conversations)", "-", "-", 0, "-", "-"})
	}

	_ = tw.Render()
	return nil
}

func writeConversation(w io.Writer, conv *kodelet.Conversation, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(conv)
	case "", "text":
		fmt.Fprintf(w, "conversation %s (%s)\n", conv.ID, conv.Provider)
		if conv.Summary != "" {
			fmt.Fprintf(w, "summary: %s\n", conv.Summary)
		}
		fmt.Fprintf(w, "updated: %s\n\n", formatTimestamp(conv.UpdatedAt))
		for _, msg := range conv.Messages {
			fmt.Fprintf(w, "[%s]\n%s\n\n", msg.Role, msg.Content)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
