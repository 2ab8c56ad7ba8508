package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-pulsator/debug"
)

// ScanTimeout bounds a port scan. CoreMIDI can hang indefinitely.
var ScanTimeout = 3 * time.Second

func scanOutPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(ScanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}

// ListPorts returns the names of the available output ports.
func ListPorts() ([]string, error) {
	outs, err := scanOutPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	return names, nil
}

// OpenPort opens the first output port whose name contains name
// (case-insensitive). An empty name opens the first port.
func OpenPort(name string) (Sender, string, error) {
	outs, err := scanOutPorts()
	if err != nil {
		return nil, "", err
	}

	want := strings.ToLower(name)
	for _, port := range outs {
		if !strings.Contains(strings.ToLower(port.String()), want) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", port.String(), err)
		}
		debug.Log("midi", "opened output %q", port.String())
		return send, port.String(), nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrPortNotFound, name)
}

// CloseDriver releases the MIDI driver and every port opened through it.
func CloseDriver() {
	gomidi.CloseDriver()
}
