package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/dbus"
	"github.com/jmylchreest/toastd/internal/toast"
)

type sendOptions struct {
	title      string
	severity   string
	duration   time.Duration
	persistent bool
	replaces   uint32
	appName    string
	quiet      bool
	close      uint32
	serverInfo bool
}

// busClient is the part of dbus.Client that send uses.
type busClient interface {
	Notify(ctx context.Context, m dbus.Message) (uint32, error)
	CloseNotification(ctx context.Context, id uint32) error
	ServerInformation(ctx context.Context) (dbus.ServerInfo, error)
}

var sendOpts sendOptions

// sendCmd raises a toast through the notification server on the session bus.
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a toast to the desktop daemon",
	Long: `Send a toast over D-Bus to the running notification server.

The severity is carried in the x-toastd-severity hint, with a matching
urgency for other notification servers. Prints the notification ID.

Examples:
  toastd send "Build finished" --severity success
  toastd send "Disk almost full" -s warning --title "Storage"
  toastd send "Deploy running" --persistent
  toastd send --close 7
  toastd send --server-info`,
	Args: func(cmd *cobra.Command, args []string) error {
		if sendOpts.close > 0 || sendOpts.serverInfo {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendOpts.title, "title", "t", "",
		"Toast title (default: none)")
	sendCmd.Flags().StringVarP(&sendOpts.severity, "severity", "s", "info",
		"Severity: success, danger, warning or info")
	sendCmd.Flags().DurationVarP(&sendOpts.duration, "duration", "d", 0,
		"Time before auto-dismiss (default: server default)")
	sendCmd.Flags().BoolVarP(&sendOpts.persistent, "persistent", "p", false,
		"Keep the toast until dismissed")
	sendCmd.Flags().Uint32Var(&sendOpts.replaces, "replaces", 0,
		"Notification ID to replace")
	sendCmd.Flags().StringVar(&sendOpts.appName, "app-name", "toastd",
		"Application name reported to the server")
	sendCmd.Flags().BoolVarP(&sendOpts.quiet, "quiet", "q", false,
		"Do not print the notification ID")
	sendCmd.Flags().Uint32Var(&sendOpts.close, "close", 0,
		"Close the notification with this ID instead of sending")
	sendCmd.Flags().BoolVar(&sendOpts.serverInfo, "server-info", false,
		"Print the running notification server's name and version")
	sendCmd.MarkFlagsMutuallyExclusive("close", "server-info")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	return sendWith(ctx, cmd.OutOrStdout(), client, strings.Join(args, " "), sendOpts)
}

// sendWith performs the bus call selected by opts and prints its result.
func sendWith(ctx context.Context, out io.Writer, client busClient, text string, opts sendOptions) error {
	switch {
	case opts.serverInfo:
		info, err := client.ServerInformation(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s (%s, protocol %s)\n", info.Name, info.Version, info.Vendor, info.SpecVersion)
		return nil

	case opts.close > 0:
		return client.CloseNotification(ctx, opts.close)
	}

	msg, err := sendMessage(text, opts)
	if err != nil {
		return err
	}
	id, err := client.Notify(ctx, msg)
	if err != nil {
		return err
	}
	if !opts.quiet {
		fmt.Fprintln(out, id)
	}
	return nil
}

// sendMessage builds the bus message from the command flags.
func sendMessage(text string, opts sendOptions) (dbus.Message, error) {
	raw := strings.ToLower(strings.TrimSpace(opts.severity))
	sev := toast.ParseSeverity(raw)
	if sev == toast.SeverityInfo && raw != "info" {
		return dbus.Message{}, fmt.Errorf("invalid severity %q, must be one of success, danger, warning, info", opts.severity)
	}

	msg := dbus.Message{
		AppName:    opts.appName,
		ReplacesID: opts.replaces,
		Title:      opts.title,
		Message:    text,
		Severity:   sev,
	}
	switch {
	case opts.persistent:
		msg.Duration = toast.Persistent()
	case opts.duration > 0:
		msg.Duration = toast.For(opts.duration)
	}
	return msg, nil
}
