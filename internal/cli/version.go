package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/coglog/coglog/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for coglog",
	Example: `  # Show version info
  coglog version

  # Plain output (for scripts)
  coglog version --plain`,
	Args: argumentCheck(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if colorsEnabled(cmd, out) {
			printPrettyVersion(out)
		} else {
			printPlainVersion(out)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(versionCmd)
}

type versionLine struct {
	label string
	value string
}

func versionInfo() []versionLine {
	return []versionLine{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "coglog %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints a styled version output in a box
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	const boxWidth = 44
	contentWidth := boxWidth - 4 // Account for borders and padding

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+cyan("coglog"))
	fmt.Fprintln(w, "╭"+strings.Repeat("─", boxWidth-2)+"╮")
	for _, item := range versionInfo() {
		label := yellow(fmt.Sprintf("%10s", item.label))
		line := fmt.Sprintf("  %s    %s", label, white(item.value))
		// Pad to fill the box
		lineLen := 10 + 4 + len(item.value) + 2
		if lineLen < contentWidth {
			line += strings.Repeat(" ", contentWidth-lineLen)
		}
		fmt.Fprintln(w, "│ "+line+" │")
	}
	fmt.Fprintln(w, "╰"+strings.Repeat("─", boxWidth-2)+"╯")
	if build.IsDevBuild() {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("  development build"))
	}
	fmt.Fprintln(w)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
