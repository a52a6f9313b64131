package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/ctlmap/internal/utils"
)

// Example is a command line shown in help output
type Example struct {
	Cmd  string
	Desc string
}

// Examples returns the usage examples appended to the help text
func Examples() []Example {
	name := utils.ExecutableName()
	return []Example{
		{name, "Map the X-TOUCH MINI with the built-in layout"},
		{name + " run --layout gamepad --device /dev/input/js0", "Map a gamepad"},
		{name + " run -c mapping.yaml --wait", "Use a mapping file, wait for the device"},
		{name + " run -n -d", "Dry run with debug logging"},
		{name + " devices", "List connected controllers"},
		{name + " init mapping.yaml", "Write a mapping file to edit"},
		{name + " check -c mapping.yaml", "Resolve every key in a mapping"},
	}
}

// FormatExamples renders examples as an aligned, styled block
func FormatExamples(examples []Example) string {
	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		maxLen = max(maxLen, len(ex.Cmd))
	}

	var b strings.Builder
	b.WriteString(Bold("Examples") + "\n")
	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.Cmd)+2)
		fmt.Fprintf(&b, "  %s%s%s\n", cmdStyle.Render(ex.Cmd), padding, Muted(ex.Desc))
	}
	return b.String()
}

// PrintVersion displays the styled version information
func PrintVersion(w io.Writer, version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Render("v" + version)

	fmt.Fprintf(w, "%s %s\n", banner, versionTag)
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(w io.Writer, context, message string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Error(context))
	fmt.Fprintf(w, "  %s\n", Muted(message))
	fmt.Fprintln(w)
}

// PrintConfigCreated shows where a new mapping file was written
func PrintConfigCreated(w io.Writer, configPath, layout, devicePath string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Success("Mapping file created"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", Muted("Config:"), configPath)
	fmt.Fprintf(w, "  %s %s\n", Muted("Layout:"), layout)
	if devicePath != "" {
		fmt.Fprintf(w, "  %s %s\n", Muted("Device:"), DevicePathStyle.Render(devicePath))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s to start mapping.\n", Code(utils.ExecutableName()+" run -c "+configPath))
}

// PrintDeviceUpdated shows a success message after changing the device path
func PrintDeviceUpdated(w io.Writer, configPath, devicePath string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Success("Device updated"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", Muted("Config:"), configPath)
	fmt.Fprintf(w, "  %s %s\n", Muted("Device:"), DevicePathStyle.Render(devicePath))
	fmt.Fprintln(w)
}

// CheckProblem is one binding that failed validation
type CheckProblem struct {
	Binding string
	Err     error
}

// PrintCheckReport summarizes a mapping check
func PrintCheckReport(w io.Writer, source string, bindings, keys int, problems []CheckProblem) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Title("Mapping check"))
	fmt.Fprintf(w, "  %s %s\n", Muted("Source:"), source)
	fmt.Fprintf(w, "  %s %d\n", Muted("Bindings:"), bindings)
	fmt.Fprintf(w, "  %s %d\n", Muted("Keys resolved:"), keys)
	fmt.Fprintln(w)

	if len(problems) == 0 {
		fmt.Fprintln(w, Success("Every key resolves on this display"))
		fmt.Fprintln(w)
		return
	}
	for _, p := range problems {
		fmt.Fprintf(w, "%s\n  %s\n", Error(p.Binding), Muted(p.Err.Error()))
	}
	fmt.Fprintln(w)
}
