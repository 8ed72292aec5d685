// Package input polls the measure button and hands accepted presses to the
// sampler. It runs in the main goroutine, never in the scan timer.
package input

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/gpio"
	"github.com/sweeney/segment-voltmeter/internal/mqtt"
	"github.com/sweeney/segment-voltmeter/internal/sampler"
	"github.com/sweeney/segment-voltmeter/internal/status"
)

// PollInterval is the button polling cadence.
const PollInterval = 10 * time.Millisecond

// Trigger takes a measurement when the debounce gate allows it.
type Trigger interface {
	SampleOnTrigger(now time.Time) (sampler.Measurement, bool, error)
	Counts() sampler.Counts
}

// Loop polls an active-low button and triggers measurements.
type Loop struct {
	Button     gpio.Input
	Trigger    Trigger
	Publisher  mqtt.Publisher
	MQTTStatus mqtt.ConnectionStatus // optional
	Tracker    *status.Tracker       // optional
	Now        func() time.Time
}

// Run polls the button on every tick until a signal arrives, then publishes
// a SHUTDOWN event and returns. Read and publish errors are logged and the
// loop carries on.
func (l *Loop) Run(tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			l.shutdown(s)
			return nil

		case <-tick:
			level, err := l.Button.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				continue
			}
			if level {
				// released (pulled up)
				continue
			}
			l.trigger(l.Now())
		}
	}
}

func (l *Loop) trigger(now time.Time) {
	m, ok, err := l.Trigger.SampleOnTrigger(now)
	if l.Tracker != nil {
		l.Tracker.SetCounts(l.Trigger.Counts())
	}
	if err != nil {
		log.Printf("sample error: %v", err)
		return
	}
	if !ok {
		return
	}

	log.Print(m)
	if l.Tracker != nil {
		l.Tracker.Record(m)
		if l.MQTTStatus != nil {
			l.Tracker.SetMQTTConnected(l.MQTTStatus.IsConnected())
		}
	}
	if err := l.Publisher.Publish(m); err != nil {
		log.Printf("publish error: %v", err)
	}
}

func (l *Loop) shutdown(s os.Signal) {
	reason := "UNKNOWN"
	switch s {
	case syscall.SIGINT:
		reason = "SIGINT"
	case syscall.SIGTERM:
		reason = "SIGTERM"
	}

	event := mqtt.SystemEvent{
		Timestamp: l.Now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if l.Tracker != nil {
		if l.MQTTStatus != nil {
			l.Tracker.SetMQTTConnected(l.MQTTStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(l.Tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := l.Publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}
