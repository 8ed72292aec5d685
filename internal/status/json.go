package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/display"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Display       DisplayJSON      `json:"display"`
	Last          *MeasurementJSON `json:"last_measurement,omitempty"`
	Counts        CountsJSON       `json:"trigger_counts"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Config        ConfigJSON       `json:"config"`
}

// DisplayJSON reports what the display is showing.
type DisplayJSON struct {
	Text        string `json:"text"`
	Value       uint32 `json:"value"`
	Scanning    bool   `json:"scanning"`
	WriteErrors uint64 `json:"write_errors"`
}

// MeasurementJSON is the JSON representation of the last measurement.
type MeasurementJSON struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Voltage    float64 `json:"voltage"`
	Millivolts uint32  `json:"millivolts"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of trigger counts.
type CountsJSON struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Mode       string `json:"mode"`
	Backend    string `json:"backend"`
	ScanMs     int64  `json:"scan_ms"`
	PollMs     int64  `json:"poll_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
}

// DisplayText renders the snapshot's value as the digits show it.
func DisplayText(snap Snapshot) string {
	digits := snap.Digits
	if digits == 0 {
		digits = display.Count
	}
	return display.Format(snap.Value, digits, snap.DecimalPos)
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Display: DisplayJSON{
			Text:        DisplayText(snap),
			Value:       snap.Value,
			Scanning:    snap.Scanning,
			WriteErrors: snap.WriteErrors,
		},
		Counts: CountsJSON{
			Accepted: snap.Counts.Accepted,
			Rejected: snap.Counts.Rejected,
			Failed:   snap.Counts.Failed,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			Mode:       snap.Config.Mode,
			Backend:    snap.Config.Backend,
			ScanMs:     snap.Config.ScanMs,
			PollMs:     snap.Config.PollMs,
			DebounceMs: snap.Config.DebounceMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}
	if m := snap.Last; m != nil {
		inner.Last = &MeasurementJSON{
			ID:         m.ID,
			Timestamp:  m.Time.UTC().Format(time.RFC3339Nano),
			Voltage:    math.Round(m.Volts()*1000) / 1000,
			Millivolts: m.Display,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
