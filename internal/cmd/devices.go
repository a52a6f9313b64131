package cmd

import (
	"os"

	"github.com/pleimann/ctlmap/internal/input"
	"github.com/pleimann/ctlmap/internal/ui"
)

type Devices struct {
	HID bool `help:"Also list raw HID devices"`
}

func (d *Devices) Run() error {
	devices, err := input.ListDevices()
	if err != nil {
		return err
	}

	var hid []input.HIDInfo
	if d.HID {
		hid = ui.UniqueHID(input.ListHID())
	}
	ui.PrintDeviceList(os.Stdout, devices, hid)
	return nil
}
