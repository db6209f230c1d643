// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"freqdetect/internal/config"
)

// Initialize sets up the PortAudio subsystem. It must be called before
// any capture operation and paired with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initializing PortAudio: %w", err)
	}
	return nil
}

// Terminate shuts the PortAudio subsystem down.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("audio: terminating PortAudio: %w", err)
	}
	return nil
}

// InputDevice returns the input device for deviceID, or the system
// default input device when deviceID is config.MinDeviceID.
func InputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID == config.MinDeviceID {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("audio: no default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: listing devices: %w", err)
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("audio: invalid device ID %d", deviceID)
	}
	if devices[deviceID].MaxInputChannels < 1 {
		return nil, fmt.Errorf("audio: device %d (%s) has no input channels", deviceID, devices[deviceID].Name)
	}
	return devices[deviceID], nil
}

// ListDevices prints every available audio device with its capabilities.
func ListDevices() error {
	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("audio: listing devices: %w", err)
	}

	fmt.Printf("\nAvailable audio devices\n\n")
	for i, device := range devices {
		kind := deviceKind(device.MaxInputChannels, device.MaxOutputChannels)
		fmt.Printf("[%d] %s (%s)\n", i, device.Name, kind)
		fmt.Printf("    Input channels: %d, output channels: %d\n",
			device.MaxInputChannels, device.MaxOutputChannels)
		fmt.Printf("    Default sample rate: %.0f Hz\n", device.DefaultSampleRate)
		fmt.Printf("    Latency: low=%.2fms, high=%.2fms\n\n",
			device.DefaultLowInputLatency.Seconds()*1000,
			device.DefaultHighInputLatency.Seconds()*1000)
	}
	return nil
}

func deviceKind(in, out int) string {
	switch {
	case in > 0 && out > 0:
		return "input/output"
	case in > 0:
		return "input"
	case out > 0:
		return "output"
	default:
		return "none"
	}
}
