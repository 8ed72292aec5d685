// Command segment-voltmeter scans a 4-digit 7-segment display and shows the
// voltage on an ADC channel each time the measure button is pressed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/adc"
	"github.com/sweeney/segment-voltmeter/internal/config"
	"github.com/sweeney/segment-voltmeter/internal/display"
	"github.com/sweeney/segment-voltmeter/internal/gpio"
	"github.com/sweeney/segment-voltmeter/internal/input"
	"github.com/sweeney/segment-voltmeter/internal/mqtt"
	"github.com/sweeney/segment-voltmeter/internal/sampler"
	"github.com/sweeney/segment-voltmeter/internal/status"
	"github.com/sweeney/segment-voltmeter/internal/timer"
	"github.com/sweeney/segment-voltmeter/internal/web"
)

type options struct {
	scan       time.Duration
	poll       time.Duration
	debounce   time.Duration
	count      time.Duration
	broker     string
	httpAddr   string
	backend    string
	configPath string
	selfTest   bool
	printState bool
}

func main() {
	var o options
	flag.DurationVar(&o.scan, "scan", display.ScanPeriod, "Display scan period per digit")
	flag.DurationVar(&o.poll, "poll", input.PollInterval, "Button polling interval")
	flag.DurationVar(&o.debounce, "debounce", sampler.Debounce, "Minimum time between accepted presses")
	flag.DurationVar(&o.count, "count", 0, "Count up on the display at this period instead of measuring (0 to disable)")
	flag.StringVar(&o.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&o.backend, "backend", "cdev", `GPIO backend: "cdev" or "periph"`)
	flag.StringVar(&o.configPath, "config", "", "YAML wiring file (empty for defaults)")
	flag.BoolVar(&o.selfTest, "test", false, "Run the display test sequence at startup")
	flag.BoolVar(&o.printState, "print-state", false, "Print button and ADC state and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	wiring, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	chip, err := openChip(o.backend, wiring.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	lines, button, err := openLines(chip, wiring)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	var ain adc.Input
	if o.count == 0 || o.printState {
		iio, err := adc.NewIIO(wiring.ADC.Path, wiring.ADC.Bits)
		if err != nil {
			return fmt.Errorf("init adc: %w", err)
		}
		ain = iio
	}

	if o.printState {
		return printState(os.Stdout, button, ain)
	}

	value := &display.Value{}
	mux, err := display.NewMultiplexer(lines, value, timer.NewTicker(), display.Options{
		DecimalPosition: display.DecimalPosition,
	})
	if err != nil {
		return err
	}
	mux.Start(o.scan)
	defer mux.Stop()

	if o.selfTest {
		log.Printf("running display test")
		if err := mux.RunValueTest(context.Background(), display.TestStep); err != nil {
			log.Printf("display test: %v", err)
		}
	}

	publisher := mqtt.NewRealPublisher(o.broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Mode:       mode(o),
		Backend:    o.backend,
		ScanMs:     o.scan.Milliseconds(),
		PollMs:     o.poll.Milliseconds(),
		DebounceMs: o.debounce.Milliseconds(),
		Broker:     o.broker,
		HTTPAddr:   o.httpAddr,
	})
	tracker.SetDisplay(mux)

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker, mux, display.TestStep)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	loop := &input.Loop{
		Publisher:  publisher,
		MQTTStatus: publisher,
		Tracker:    tracker,
		Now:        time.Now,
	}

	if o.count > 0 {
		counter := timer.NewTicker()
		counter.Start(o.count, display.NewCounter(value, mux.Digits()).Step)
		defer counter.Stop()

		log.Printf("started: counting every %v scan=%v broker=%s", o.count, o.scan, o.broker)
		// no button: the loop only waits for a signal
		return loop.Run(nil, sigCh)
	}

	loop.Button = button
	loop.Trigger = sampler.New(ain, value,
		sampler.WithDebounce(o.debounce),
		sampler.WithDigits(mux.Digits()),
	)

	log.Printf("started: scan=%v poll=%v debounce=%v broker=%s", o.scan, o.poll, o.debounce, o.broker)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	return loop.Run(ticker.C, sigCh)
}

func openChip(backend, name string) (gpio.Chip, error) {
	switch backend {
	case "cdev":
		c, err := gpio.NewCdevChip(name)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "periph":
		c, err := gpio.NewPeriphChip()
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// openLines requests every display line dark and deselected, and the button
// as a pulled-up input.
func openLines(chip gpio.Chip, w config.Wiring) (display.Lines, gpio.Input, error) {
	var lines display.Lines
	for i, offset := range w.Segments {
		out, err := chip.Output(offset, true)
		if err != nil {
			return display.Lines{}, nil, fmt.Errorf("segment %c: %w", 'a'+i, err)
		}
		lines.Segments[i] = out
	}

	dp, err := chip.Output(w.DP, true)
	if err != nil {
		return display.Lines{}, nil, fmt.Errorf("dp: %w", err)
	}
	lines.DP = dp

	for i, offset := range w.Selects {
		out, err := chip.Output(offset, false)
		if err != nil {
			return display.Lines{}, nil, fmt.Errorf("select %d: %w", i, err)
		}
		lines.Selects = append(lines.Selects, out)
	}

	button, err := chip.Input(w.Button)
	if err != nil {
		return display.Lines{}, nil, fmt.Errorf("button: %w", err)
	}
	return lines, button, nil
}

func printState(w io.Writer, button gpio.Input, ain adc.Input) error {
	level, err := button.Read()
	if err != nil {
		return fmt.Errorf("read button: %w", err)
	}
	raw, err := ain.Read()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}
	v := sampler.Voltage(uint32(raw) * sampler.Oversample)
	fmt.Fprintf(w, "Button: %s, ADC: %d (%s)\n", buttonString(level), raw, v)
	return nil
}

func buttonString(level bool) string {
	if level {
		return "RELEASED"
	}
	return "PRESSED"
}

func mode(o options) string {
	if o.count > 0 {
		return "count"
	}
	return "sample"
}
