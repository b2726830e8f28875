// Package cli turns a client's arguments into a single request, using the
// resident's registry snapshot to decide which commands exist.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/atomicstack/popup-launcher/internal/format/table"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/registry"
)

// Parse resolves args against snap without sending anything.
func Parse(snap registry.Snapshot, args []string, stdout, stderr io.Writer) (ipc.Request, error) {
	var req ipc.Request
	root := Build(snap, func(r ipc.Request) error {
		req = r
		return nil
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return ipc.Request{}, err
	}
	return req, nil
}

// Build returns the client command tree. send receives the parsed request.
// Running a help or completion command sends nothing.
func Build(snap registry.Snapshot, send func(ipc.Request) error) *cobra.Command {
	leaves := snap.Leaves()
	root := &cobra.Command{
		Use:           "popup-launcher <action> [command]",
		Short:         "Control the resident popup launcher",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	simple := func(action ipc.Action, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(action),
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return send(ipc.Request{Action: action})
			},
		}
	}
	root.AddCommand(
		simple(ipc.ActionToggle, "Show the launcher if hidden, hide it otherwise"),
		simple(ipc.ActionShow, "Show the launcher"),
		simple(ipc.ActionHide, "Hide the launcher"),
		simple(ipc.ActionQuit, "Stop the resident launcher"),
	)

	command := &cobra.Command{
		Use:       "command <name>",
		Short:     "Open a command, or toggle it if it is already open",
		Long:      "Open a command, or toggle it if it is already open.\n\nAvailable commands:\n" + commandTable(snap, leaves),
		ValidArgs: leaves,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			if _, ok := snap.ByLeaf(args[0]); !ok {
				return unknownCommand(args[0], leaves)
			}
			return nil
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var out []string
			for _, leaf := range leaves {
				if strings.HasPrefix(leaf, toComplete) {
					e, _ := snap.ByLeaf(leaf)
					out = append(out, leaf+"\t"+e.Title)
				}
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return send(ipc.CommandRequest(args[0]))
		},
	}
	root.AddCommand(command)

	var delimiter string
	pipe := &cobra.Command{
		Use:   "pipe",
		Short: "Accept piped input (reserved)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return send(ipc.Request{Action: ipc.ActionPipe})
		},
	}
	pipe.Flags().StringVarP(&delimiter, "delimiter", "d", "", "input record delimiter")
	_ = pipe.MarkFlagRequired("delimiter")
	root.AddCommand(pipe)
	return root
}

func commandTable(snap registry.Snapshot, leaves []string) string {
	rows := make([][]string, 0, len(leaves))
	for _, leaf := range leaves {
		e, _ := snap.ByLeaf(leaf)
		rows = append(rows, []string{leaf, e.Title, e.Category})
	}
	var b strings.Builder
	for _, line := range table.Format(rows, nil) {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func unknownCommand(name string, leaves []string) error {
	if len(leaves) == 0 {
		return fmt.Errorf("invalid command %q: the launcher has no commands", name)
	}
	msg := fmt.Sprintf("invalid command %q (valid: %s)", name, strings.Join(leaves, ", "))
	if hint := suggest(name, leaves); hint != "" {
		msg += fmt.Sprintf("; did you mean %q?", hint)
	}
	return errors.New(msg)
}

// suggest ranks leaves against name. The query is tried both ways round so
// that a truncated name and one with extra characters both find a match.
func suggest(name string, leaves []string) string {
	if matches := fuzzy.Find(name, leaves); len(matches) > 0 {
		return matches[0].Str
	}
	best, bestScore := "", 0
	for _, leaf := range leaves {
		if m := fuzzy.Find(leaf, []string{name}); len(m) > 0 && (best == "" || m[0].Score > bestScore) {
			best, bestScore = leaf, m[0].Score
		}
	}
	return best
}
