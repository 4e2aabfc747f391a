// Package output provides formatted terminal output utilities.
// It includes colors, prompts, tables, and other CLI display helpers.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vpnforge/vpnforge/internal/constants"

	"github.com/fatih/color"
)

var (
	// Colors and styles
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)

	// Stdout is the output writer for normal output (can be overridden for testing).
	Stdout io.Writer = os.Stdout
	// Stderr is the output writer for error output (can be overridden for testing).
	Stderr io.Writer = os.Stderr
	// Stdin is the reader prompts consume (can be overridden for testing).
	Stdin io.Reader = os.Stdin

	// Disable colors if not TTY or NO_COLOR is set
	_ = func() bool {
		disable := os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout)
		if disable {
			color.NoColor = true
		}
		return disable
	}()
	// Matches ANSI escape sequences used for colors/styles
	ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	stdinReader *bufio.Reader
	readerFor   io.Reader
)

// visibleWidth returns the number of visible characters, ignoring ANSI escape codes
func visibleWidth(s string) int {
	clean := ansiRegexp.ReplaceAllString(s, "")
	return utf8.RuneCountInString(clean)
}

// Successf prints a success message with a checkmark (to stderr)
// Example: ✓ vpc created: vpc-0abc
func Successf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, green.Sprint("✓")+" "+format+"\n", a...)
}

// Infof prints an informational message with an arrow (to stderr)
// Example: → Waiting for instance i-0abc to reach running...
func Infof(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, cyan.Sprint("→")+" "+format+"\n", a...)
}

// Warningf prints a warning message with a warning symbol (to stderr)
// Example: ⚠ security_group sg-0abc already absent
func Warningf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, yellow.Sprint("⚠")+" "+format+"\n", a...)
}

// Errorf prints an error message with an X symbol (to stderr)
// Example: ✗ Failed to delete vpc vpc-0abc: DependencyViolation
func Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, red.Sprint("✗")+" "+format+"\n", a...)
}

// Step prints the start of a numbered step (to stderr)
// Example: [1] vpc
func Step(step int, message string) {
	_, _ = gray.Fprintf(Stderr, "[%d] ", step)
	_, _ = fmt.Fprintln(Stderr, message)
}

// StepSuccess prints a successful step completion (to stderr)
// Example: [1] ✓ vpc vpc-0abc created
func StepSuccess(step int, message string) {
	_, _ = gray.Fprintf(Stderr, "[%d] ", step)
	_, _ = fmt.Fprintf(Stderr, "%s %s\n", green.Sprint("✓"), message)
}

// StepError prints a failed step (to stderr)
// Example: [8] ✗ instance failed: InsufficientInstanceCapacity
func StepError(step int, message string) {
	_, _ = gray.Fprintf(Stderr, "[%d] ", step)
	_, _ = fmt.Fprintf(Stderr, "%s %s\n", red.Sprint("✗"), message)
}

// Header prints a section header with a separator line (to stderr)
// Example:
// Provisioning VPN endpoint in eu-west-2
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
func Header(text string) {
	_, _ = fmt.Fprintln(Stderr)
	_, _ = fmt.Fprintln(Stderr, bold.Sprint(text))
	_, _ = fmt.Fprintln(Stderr, gray.Sprint(strings.Repeat("━", constants.HeaderSeparatorLength)))
}

// KeyValue prints a key-value pair with indentation
// Example:   Region: eu-west-2
func KeyValue(key, value string) {
	_, _ = fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), value)
}

// KeyValueBold prints a key-value pair with bold value
// Example:   Public address: 18.130.1.2
func KeyValueBold(key, value string) {
	_, _ = fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), bold.Sprint(value))
}

// Blank prints a blank line
func Blank() {
	_, _ = fmt.Fprintln(Stdout)
}

// Bold prints text in bold
func Bold(text string) string {
	return bold.Sprint(text)
}

// Box prints text in a rounded box (to stderr)
// Example:
// ╭──────────────────────────────────────────────╮
// │  ssh -i "office.pem" openvpnas@18.130.1.2    │
// ╰──────────────────────────────────────────────╯
func Box(text string) {
	lines := strings.Split(text, "\n")
	maxLen := 0
	for _, line := range lines {
		if w := visibleWidth(line); w > maxLen {
			maxLen = w
		}
	}

	_, _ = fmt.Fprintln(Stderr, gray.Sprint("╭─"+strings.Repeat("─", maxLen+constants.BoxBorderPadding)+"─╮"))

	for _, line := range lines {
		padding := strings.Repeat(" ", maxLen-visibleWidth(line))
		_, _ = fmt.Fprintf(Stderr, "%s  %s%s  %s\n",
			gray.Sprint("│"),
			line,
			padding,
			gray.Sprint("│"))
	}

	_, _ = fmt.Fprintln(Stderr, gray.Sprint("╰─"+strings.Repeat("─", maxLen+constants.BoxBorderPadding)+"─╯"))
}

// Table prints a simple table with headers
// Example:
// Resource          ID
// ────────          ──
// vpc               vpc-0abc
// subnet            subnet-0def
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], visibleWidth(cell))
			}
		}
	}

	for i, h := range headers {
		pad := max(widths[i]-visibleWidth(h), 0)
		_, _ = fmt.Fprint(Stdout, bold.Sprint(h), strings.Repeat(" ", pad), "  ")
	}
	_, _ = fmt.Fprintln(Stdout)

	for i := range headers {
		_, _ = fmt.Fprintf(Stdout, "%s  ", gray.Sprint(strings.Repeat("─", widths[i])))
	}
	_, _ = fmt.Fprintln(Stdout)

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			pad := max(widths[i]-visibleWidth(cell), 0)
			_, _ = fmt.Fprint(Stdout, cell, strings.Repeat(" ", pad), "  ")
		}
		_, _ = fmt.Fprintln(Stdout)
	}
}

// List prints a bulleted list
// Example:
//   - vpc vpc-0abc
//   - security_group sg-0def
func List(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(Stdout, "  %s %s\n", cyan.Sprint("•"), item)
	}
}

func readLine() string {
	if stdinReader == nil || readerFor != Stdin {
		stdinReader = bufio.NewReader(Stdin)
		readerFor = Stdin
	}
	line, _ := stdinReader.ReadString('\n')
	return strings.TrimSpace(line)
}

// Confirm prompts the user for yes/no confirmation
// Returns true if user confirms (y/Y), false otherwise
func Confirm(prompt string) bool {
	_, _ = fmt.Fprintf(Stdout, "%s [y/N]: ", yellow.Sprint("?")+" "+prompt)

	response := strings.ToLower(readLine())
	return response == "y" || response == "yes"
}

// Prompt prompts the user for input
func Prompt(prompt string) string {
	_, _ = fmt.Fprintf(Stdout, "%s: ", cyan.Sprint("?")+" "+prompt)
	return readLine()
}

// PromptRequired prompts the user for input and requires a non-empty response.
// It gives up and returns "" when input is exhausted.
func PromptRequired(prompt string) string {
	for range constants.MaxPromptAttempts {
		if response := Prompt(prompt); response != "" {
			return response
		}
		Warningf("This field is required")
	}
	return ""
}

// StatusBadge returns a colored badge for a resource outcome or deployment state
func StatusBadge(status string) string {
	switch strings.ToLower(status) {
	case "created", "reused", "deleted", "fully-provisioned":
		return green.Sprint("● " + status)
	case "absent", "partially-provisioned", "partially-torn-down":
		return yellow.Sprint("● " + status)
	case "failed", "error":
		return red.Sprint("● " + status)
	case "empty", "adopted":
		return gray.Sprint("● " + status)
	default:
		return cyan.Sprint("● " + status)
	}
}

// Duration formats a duration in a human-readable way
func Duration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % constants.SecondsPerMinute
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % constants.MinutesPerHour
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fileInfo, _ := f.Stat()
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// IsInteractive reports whether prompts read from a terminal a person can answer.
func IsInteractive() bool {
	f, ok := Stdin.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(f)
}
