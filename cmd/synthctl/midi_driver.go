//go:build !headless

package main

// Registers the RtMidi driver with gomidi.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
