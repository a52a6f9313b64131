package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pleimann/ctlmap/internal/input"
)

// deviceSelectModel wraps huh form in Bubble Tea for proper escape handling
type deviceSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m deviceSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m deviceSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m deviceSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// SelectDevice lets the user pick an input device and a built-in layout.
// It returns nil when the user cancels.
func SelectDevice(devices []input.DeviceInfo, layouts []string) (*input.DeviceInfo, string, error) {
	if len(devices) == 0 {
		return nil, "", fmt.Errorf("no devices to select from")
	}

	options := make([]huh.Option[int], len(devices))
	for i, d := range devices {
		options[i] = huh.NewOption(deviceLabel(d), i)
	}
	layoutOptions := huh.NewOptions(layouts...)

	var (
		selectedIndex int
		layout        = suggestLayout(devices[0], layouts)
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select input device").
				Description("The controller to map (esc to cancel)").
				Options(options...).
				Value(&selectedIndex),
			huh.NewSelect[string]().
				Title("Starting layout").
				Description("Built-in mapping to start from").
				Options(layoutOptions...).
				Value(&layout),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	p := tea.NewProgram(deviceSelectModel{form: form})
	finalModel, err := p.Run()
	if err != nil {
		return nil, "", err
	}

	if finalModel.(deviceSelectModel).aborted {
		return nil, "", nil
	}

	return &devices[selectedIndex], layout, nil
}

// suggestLayout picks the layout that matches a device's interface
func suggestLayout(d input.DeviceInfo, layouts []string) string {
	want := "gamepad"
	if d.Kind == input.KindMIDI {
		want = "xtouch-mini"
	}
	for _, l := range layouts {
		if l == want {
			return l
		}
	}
	if len(layouts) > 0 {
		return layouts[0]
	}
	return ""
}

func deviceLabel(d input.DeviceInfo) string {
	return fmt.Sprintf("%s %s  %s",
		DeviceKindStyle.Render(string(d.Kind)),
		DevicePathStyle.Render(d.Path),
		deviceName(d.Name),
	)
}

func deviceName(name string) string {
	if name == "" {
		return "Unknown Device"
	}
	return name
}

// PrintDeviceList displays the input devices and HID devices found
func PrintDeviceList(w io.Writer, devices []input.DeviceInfo, hid []input.HIDInfo) {
	if len(devices) == 0 {
		fmt.Fprintln(w, Warning("No joystick, MIDI or event devices found"))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Title("Input Devices"))
		fmt.Fprintln(w, Muted(fmt.Sprintf("Found %d device(s)", len(devices))))
		fmt.Fprintln(w)
		for _, d := range devices {
			fmt.Fprintf(w, "  %s\n", deviceLabel(d))
		}
	}

	if len(hid) == 0 {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, Title("HID Devices"))
	fmt.Fprintln(w)
	for _, d := range hid {
		var details []string
		details = append(details, DeviceNameStyle.Render(deviceName(d.Product)))
		if d.Manufacturer != "" {
			details = append(details, Muted("by "+d.Manufacturer))
		}
		fmt.Fprintf(w, "  %s  %s\n",
			DeviceIDStyle.Render(fmt.Sprintf("0x%04X:0x%04X", d.VendorID, d.ProductID)),
			strings.Join(details, " "))
	}
	fmt.Fprintln(w)
}

// UniqueHID drops repeated interfaces of the same device and devices with
// no vendor/product ID
func UniqueHID(devices []input.HIDInfo) []input.HIDInfo {
	seen := make(map[uint32]bool)
	var unique []input.HIDInfo
	for _, d := range devices {
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}
	return unique
}

// customTheme returns a huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)

	return t
}
