package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/adapter/output"
	"github.com/jmylchreest/toastd/internal/core"
	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/web"
)

var listOpts struct {
	addr       string
	format     string
	template   string
	field      string
	messageLen int

	since      time.Duration
	severity   string
	activeOnly bool
	limit      int
	search     string
	sortBy     string
	sortOrder  string
}

// listCmd lists the toasts of a running "toastd serve".
var listCmd = &cobra.Command{
	Use:   "list [index|id]",
	Short: "List toasts on a running overlay server",
	Long: `List the toasts currently shown by 'toastd serve'.

Output formats:
  table  Aligned columns with relative times (default)
  dmenu  One line per toast, for fuzzel, rofi and friends
  plain  Title and message on separate lines
  json   JSON array
  ids    Toast IDs only, one per line

With an index (1-based) or ID argument, prints that toast (use --field to
pick one field).

Examples:
  toastd list
  toastd list --format dmenu | fuzzel -d
  toastd list --format ids | xargs toastd dismiss
  toastd list --severity danger --active
  toastd list 2 --field message`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

// dismissCmd dismisses toasts on a running "toastd serve".
var dismissCmd = &cobra.Command{
	Use:   "dismiss [id...]",
	Short: "Dismiss toasts on a running overlay server",
	Long:  `Dismiss the given toasts, or every active toast when no ID is given.`,
	RunE:  runDismiss,
}

func init() {
	for _, cmd := range []*cobra.Command{listCmd, dismissCmd} {
		cmd.Flags().StringVar(&listOpts.addr, "addr", "",
			"Server address (default: server.addr from config)")
	}
	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", string(output.FormatTable),
		"Output format: table, dmenu, plain, json, ids")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for dmenu/plain output (fields: .Index, .Toast, .RelativeTime)")
	listCmd.Flags().StringVar(&listOpts.field, "field", "",
		"Field to print for a single toast: id, title, message, severity, state, icon, all")
	listCmd.Flags().IntVar(&listOpts.messageLen, "message-length", 80,
		"Truncate messages to this many bytes (0 = unlimited)")
	listCmd.Flags().DurationVar(&listOpts.since, "since", 0,
		"Only toasts raised within this duration (e.g. 30s, 5m)")
	listCmd.Flags().StringVar(&listOpts.severity, "severity", "",
		"Only toasts of this severity")
	listCmd.Flags().BoolVar(&listOpts.activeOnly, "active", false,
		"Skip toasts that are already leaving")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of toasts (0 = unlimited)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Only toasts whose title or message contains this text")
	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "",
		"Sort by: created, severity, title (default: created)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "",
		"Sort order: asc, desc (default: asc)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dismissCmd)
}

func serverClient() *web.Client {
	addr := listOpts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return web.NewClient(addr)
}

func runList(cmd *cobra.Command, args []string) error {
	format := output.FormatType(listOpts.format)
	if !slices.Contains(output.FormatTypes(), format) {
		return fmt.Errorf("unknown format %q", listOpts.format)
	}
	sortOpts, err := core.ParseSortOptions(listOpts.sortBy, listOpts.sortOrder)
	if err != nil {
		return err
	}
	filterOpts := core.FilterOptions{
		Since:      listOpts.since,
		ActiveOnly: listOpts.activeOnly,
		Limit:      listOpts.limit,
	}
	if listOpts.severity != "" {
		sev := toast.ParseSeverity(listOpts.severity)
		filterOpts.Severity = &sev
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	list, err := serverClient().List(ctx)
	if err != nil {
		return err
	}

	entries := core.Search(web.Entries(list), listOpts.search)
	core.Sort(entries, sortOpts)
	entries = core.Filter(entries, filterOpts)

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.MessageMaxLen = listOpts.messageLen

	if len(args) == 1 {
		e, ok := core.Lookup(entries, args[0])
		if !ok {
			return fmt.Errorf("toast %s not found", args[0])
		}
		if listOpts.field != "" {
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatField(e, listOpts.field))
			return nil
		}
		if format == output.FormatJSON {
			return output.NewJSONFormatter(opts).FormatSingle(cmd.OutOrStdout(), e)
		}
		entries = []toast.Entry{e}
	}

	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), entries)
}

func runDismiss(cmd *cobra.Command, args []string) error {
	client := serverClient()
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if len(args) == 0 {
		n, err := client.DismissAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %d toasts\n", n)
		return nil
	}

	var failed int
	for _, id := range args {
		if err := client.Dismiss(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to dismiss %s: %v\n", id, err)
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %d toasts\n", len(args)-failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d toasts could not be dismissed", failed, len(args))
	}
	return nil
}
