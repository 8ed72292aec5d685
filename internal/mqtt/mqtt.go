// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/sampler"
)

// Topic is the MQTT topic for voltage measurements.
const Topic = "energy/voltmeter/measurements"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "energy/voltmeter/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a measurement to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(m sampler.Measurement) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "SELFTEST"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Measurement MeasurementPayload `json:"measurement"`
}

// MeasurementPayload contains the measurement details.
type MeasurementPayload struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Voltage    float64 `json:"voltage"`
	Millivolts uint32  `json:"millivolts"`
	RawAverage uint16  `json:"raw_average"`
}

// FormatPayload creates the JSON payload for a measurement.
// The voltage is rounded to the display's three decimal places.
func FormatPayload(m sampler.Measurement) ([]byte, error) {
	payload := Payload{
		Measurement: MeasurementPayload{
			ID:         m.ID,
			Timestamp:  m.Time.UTC().Format(time.RFC3339Nano),
			Voltage:    math.Round(m.Volts()*1000) / 1000,
			Millivolts: m.Display,
			RawAverage: m.Average,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
