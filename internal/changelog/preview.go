package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coglog/coglog/internal/commit"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// TypeStyle defines the color and icon for a commit type section.
type TypeStyle struct {
	Color *color.Color
	Icon  string
}

// typeStyles maps commit types to their terminal styling. Other built-in
// types use defaultStyle and custom types use customStyle.
var typeStyles = map[commit.Type]TypeStyle{
	commit.Feature:       {Color: color.New(color.FgGreen), Icon: "✓"},
	commit.BugFix:        {Color: color.New(color.FgYellow), Icon: "⚡"},
	commit.Performances:  {Color: color.New(color.FgMagenta), Icon: "»"},
	commit.Revert:        {Color: color.New(color.FgRed), Icon: "↺"},
	commit.Documentation: {Color: color.New(color.FgBlue), Icon: "~"},
	commit.Refactor:      {Color: color.New(color.FgCyan), Icon: "~"},
}

var (
	defaultStyle = TypeStyle{Color: color.New(color.FgWhite), Icon: "•"}
	customStyle  = TypeStyle{Color: color.New(color.Faint), Icon: "·"}
)

// shortOidLen is the number of oid characters shown in previews.
const shortOidLen = 7

// PreviewOptions controls the terminal preview.
type PreviewOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// WritePreview writes a human-readable overview of commits to w, grouped
// under their changelog titles in order of first appearance. It is a reading
// aid only; the serialized records are produced by Encode.
func WritePreview(commits []ChangelogCommit, w io.Writer, opts PreviewOptions) error {
	if len(commits) == 0 {
		_, err := fmt.Fprintln(w, "No commits.")
		return err
	}

	width := resolveWidth(opts.MaxWidth)

	for i, group := range groupByTitle(commits) {
		if err := writeSection(group, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("writing section %q: %w", group.title, err)
		}
	}
	return nil
}

// titleGroup holds the commits sharing one changelog title.
type titleGroup struct {
	title   string
	style   TypeStyle
	commits []ChangelogCommit
}

// groupByTitle groups commits by changelog title, preserving order.
func groupByTitle(commits []ChangelogCommit) []titleGroup {
	var groups []titleGroup
	index := make(map[string]int)

	for _, c := range commits {
		i, ok := index[c.ChangelogTitle]
		if !ok {
			i = len(groups)
			index[c.ChangelogTitle] = i
			groups = append(groups, titleGroup{
				title: c.ChangelogTitle,
				style: styleFor(c.Commit.Conventional.Type),
			})
		}
		groups[i].commits = append(groups[i].commits, c)
	}
	return groups
}

func styleFor(t commit.Type) TypeStyle {
	if t.IsCustom() {
		return customStyle
	}
	if style, ok := typeStyles[t]; ok {
		return style
	}
	return defaultStyle
}

func writeSection(group titleGroup, w io.Writer, opts PreviewOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}

	if err := writeSectionHeader(group, w, opts); err != nil {
		return err
	}
	for _, c := range group.commits {
		if err := writeLine(c, group.style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSectionHeader(group titleGroup, w io.Writer, opts PreviewOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "### %s\n", group.title)
		return err
	}

	colored := group.style.Color.SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "%s %s\n", colored(group.style.Icon), bold(group.title))
	return err
}

// writeLine writes one commit as "- [BREAKING] (scope) summary - oid - author".
func writeLine(c ChangelogCommit, style TypeStyle, w io.Writer, opts PreviewOptions, width int) error {
	prefix := "  - "
	text := lineText(c)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")
	if c.Commit.Conventional.IsBreakingChange {
		wrapped = strings.Replace(wrapped, "BREAKING", color.New(color.FgRed, color.Bold).Sprint("BREAKING"), 1)
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

func lineText(c ChangelogCommit) string {
	conv := c.Commit.Conventional

	var b strings.Builder
	if conv.IsBreakingChange {
		b.WriteString("BREAKING ")
	}
	if conv.Scope != nil {
		fmt.Fprintf(&b, "(%s) ", *conv.Scope)
	}
	b.WriteString(conv.Summary)
	fmt.Fprintf(&b, " - %s", shortOid(c.Commit.Oid))

	author := c.Commit.Author
	if c.AuthorUsername != nil {
		author = *c.AuthorUsername
	}
	if author != "" {
		fmt.Fprintf(&b, " - %s", author)
	}
	return b.String()
}

func shortOid(oid string) string {
	if len(oid) <= shortOidLen {
		return oid
	}
	return oid[:shortOidLen]
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
