package input

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/karalabe/hid"
)

// DeviceKind names the interface a device node speaks
type DeviceKind string

const (
	KindJoystick DeviceKind = "joystick"
	KindMIDI     DeviceKind = "midi"
	KindEvdev    DeviceKind = "evdev"
)

// ParseDeviceKind validates a device kind name
func ParseDeviceKind(s string) (DeviceKind, error) {
	switch k := DeviceKind(strings.ToLower(s)); k {
	case KindJoystick, KindMIDI, KindEvdev:
		return k, nil
	}
	return "", fmt.Errorf("unknown device kind %q", s)
}

// Device node locations, overridable for tests
var (
	devInputDir = "/dev/input"
	devSndDir   = "/dev/snd"
	procAsound  = "/proc/asound"
)

// DeviceInfo describes an input device node we could read from
type DeviceInfo struct {
	Kind DeviceKind
	Path string
	Name string
}

// HIDInfo contains information about a discovered HID device
type HIDInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// ListDevices returns the joystick, raw MIDI and event device nodes present
// on the system, in that order.
func ListDevices() ([]DeviceInfo, error) {
	var devices []DeviceInfo

	js, err := globSorted(filepath.Join(devInputDir, "js*"))
	if err != nil {
		return nil, err
	}
	for _, path := range js {
		name, _ := JoystickName(path)
		devices = append(devices, DeviceInfo{Kind: KindJoystick, Path: path, Name: name})
	}

	midis, err := globSorted(filepath.Join(devSndDir, "midiC*D*"))
	if err != nil {
		return nil, err
	}
	for _, path := range midis {
		devices = append(devices, DeviceInfo{Kind: KindMIDI, Path: path, Name: midiCardName(path)})
	}

	events, err := globSorted(filepath.Join(devInputDir, "event*"))
	if err != nil {
		return nil, err
	}
	for _, path := range events {
		name := ""
		if dev, err := evdev.Open(path); err == nil {
			name = dev.Name
			dev.File.Close()
		}
		devices = append(devices, DeviceInfo{Kind: KindEvdev, Path: path, Name: name})
	}

	return devices, nil
}

// ListHID returns a list of all available HID devices
func ListHID() []HIDInfo {
	devices := hid.Enumerate(0, 0)

	result := make([]HIDInfo, len(devices))
	for i, d := range devices {
		result[i] = HIDInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Path:         d.Path,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			SerialNumber: d.Serial,
			UsagePage:    d.UsagePage,
			Usage:        d.Usage,
		}
	}
	return result
}

// FindMIDI returns the first raw MIDI node whose card name contains name
func FindMIDI(name string) (string, error) {
	midis, err := globSorted(filepath.Join(devSndDir, "midiC*D*"))
	if err != nil {
		return "", err
	}
	for _, path := range midis {
		if strings.Contains(strings.ToLower(midiCardName(path)), strings.ToLower(name)) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no MIDI device matching %q", name)
}

var midiNode = regexp.MustCompile(`midiC(\d+)D\d+$`)

// cardLine matches " 1 [MINI           ]: USB-Audio - X-TOUCH MINI"
var cardLine = regexp.MustCompile(`^\s*(\d+)\s+\[[^\]]*\]:\s*.*?\s-\s(.+)$`)

// midiCardName looks up the ALSA card name for a raw MIDI node
func midiCardName(path string) string {
	m := midiNode.FindStringSubmatch(path)
	if m == nil {
		return ""
	}

	data, err := os.ReadFile(filepath.Join(procAsound, "cards"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		c := cardLine.FindStringSubmatch(line)
		if c != nil && c[1] == m[1] {
			return strings.TrimSpace(c[2])
		}
	}
	return ""
}

func globSorted(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
