// SPDX-License-Identifier: MIT
// Copyright (c) 2019 GitHub Inc.
// Copyright (c) 2022 Unikraft GmbH.
package cmdfactory

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Annotations understood by the help output.
const (
	AnnotationHelpGroup  = "help:group"
	AnnotationHelpHidden = "help:hidden"
)

var hasFailed bool

// HasFailed signals that the main process should exit with non-zero status.
func HasFailed() bool {
	return hasFailed
}

func rootFlagErrorFunc(_ *cobra.Command, err error) error {
	if err == pflag.ErrHelp {
		return err
	}
	return FlagErrorWrap(err)
}

func hidden(c *cobra.Command) bool {
	_, ok := c.Annotations[AnnotationHelpHidden]
	return ok || c.Hidden || c.Short == ""
}

func rootUsageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage:  %s\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		cmd.Print("\nAvailable commands:\n")
		for _, c := range cmd.Commands() {
			if !hidden(c) {
				cmd.Printf("  %s\n", c.Name())
			}
		}
		return nil
	}

	if usages := cmd.LocalFlags().FlagUsagesWrapped(80); usages != "" {
		cmd.Print("\nFlags:\n")
		cmd.Print(indent(dedent(usages), "  "))
		cmd.Println()
	}

	return nil
}

// section is one titled block of help output.
type section struct {
	title string
	body  string
}

// commandTable lists subcommands with their short description, aligned.
func commandTable(cmds []*cobra.Command) string {
	width := 0
	for _, c := range cmds {
		width = max(width, len(c.Name()))
	}

	var b strings.Builder
	for _, c := range cmds {
		fmt.Fprintf(&b, "%-*s  %s\n", width, c.Name(), c.Short)
	}

	return b.String()
}

func rootHelpFunc(cmd *cobra.Command, args []string) {
	// "selfe sub typo" ends up here with the unknown word as an argument.
	if cmd.HasParent() && !cmd.Parent().HasParent() && cmd.HasAvailableSubCommands() &&
		len(args) >= 2 && !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		suggest(cmd, args[1])
		hasFailed = true
		return
	}

	var sections []section

	if long := cmd.Long; long != "" {
		sections = append(sections, section{body: long})
	} else if cmd.Short != "" {
		sections = append(sections, section{body: cmd.Short})
	}

	sections = append(sections, section{"USAGE", cmd.UseLine()})

	if len(cmd.Aliases) > 0 {
		sections = append(sections, section{"ALIASES", strings.Join(cmd.Aliases, " ")})
	}

	grouped := map[string][]*cobra.Command{}
	var ungrouped []*cobra.Command

	for _, c := range cmd.Commands() {
		if hidden(c) {
			continue
		}

		group := c.Annotations[AnnotationHelpGroup]
		if group != "" && cmd.ContainsGroup(group) {
			grouped[group] = append(grouped[group], c)
		} else {
			ungrouped = append(ungrouped, c)
		}
	}

	for _, g := range cmd.Groups() {
		if cmds := grouped[g.ID]; len(cmds) > 0 {
			sections = append(sections, section{g.Title, commandTable(cmds)})
		}
	}

	if len(ungrouped) > 0 {
		sections = append(sections, section{"SUBCOMMANDS", commandTable(ungrouped)})
	}

	if usages := cmd.LocalFlags().FlagUsages(); usages != "" {
		sections = append(sections, section{"FLAGS", dedent(usages)})
	}

	if usages := cmd.InheritedFlags().FlagUsages(); usages != "" {
		sections = append(sections, section{"INHERITED FLAGS", dedent(usages)})
	}

	if cmd.Example != "" {
		sections = append(sections, section{"EXAMPLES", cmd.Example})
	}

	writeSections(cmd.OutOrStdout(), sections)
}

func writeSections(out io.Writer, sections []section) {
	title := lipgloss.NewStyle()
	if f, ok := out.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		title = title.Bold(true)
	}

	for _, s := range sections {
		body := strings.Trim(s.body, "\r\n")
		if body == "" {
			continue
		}

		if s.title != "" {
			fmt.Fprintln(out, title.Render(s.title))
			body = indent(body, "  ")
		}

		fmt.Fprintln(out, body)
		fmt.Fprintln(out)
	}
}

// suggest reports an unknown subcommand of cmd and likely alternatives.
func suggest(cmd *cobra.Command, arg string) {
	cmd.Printf("unknown command %q for %q\n", arg, cmd.CommandPath())

	if cmd.SuggestionsMinimumDistance <= 0 {
		cmd.SuggestionsMinimumDistance = 2
	}

	if candidates := cmd.SuggestionsFor(arg); len(candidates) > 0 {
		cmd.Print("\nDid you mean this?\n")
		for _, c := range candidates {
			cmd.Printf("\t%s\n", c)
		}
	}

	cmd.Println()
	_ = rootUsageFunc(cmd)
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}

	return strings.Join(lines, "\n")
}

// dedent removes the indentation shared by all non-empty lines of s.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}

		n := len(l) - len(strings.TrimLeft(l, " "))
		if common == -1 || n < common {
			common = n
		}
	}

	if common <= 0 {
		return s
	}

	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		}
	}

	return strings.Join(lines, "\n")
}
