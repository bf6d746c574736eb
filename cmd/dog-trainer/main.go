// Command dog-trainer decodes RF remote clicks, schedules quiet-time rewards,
// and publishes training events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haiml123/dog-app/internal/bark"
	"github.com/haiml123/dog-app/internal/click"
	"github.com/haiml123/dog-app/internal/feeder"
	"github.com/haiml123/dog-app/internal/mqtt"
	"github.com/haiml123/dog-app/internal/reinforce"
	"github.com/haiml123/dog-app/internal/rf"
	"github.com/haiml123/dog-app/internal/status"
	"github.com/haiml123/dog-app/internal/store"
	"github.com/haiml123/dog-app/internal/web"
)

type appConfig struct {
	poll           time.Duration
	debounce       time.Duration
	doubleWindow   time.Duration
	tripleWindow   time.Duration
	minPulses      int
	maxPulses      int
	rfPin          int
	feederPin      int
	manualDispense time.Duration
	barkWindow     time.Duration
	cooldown       time.Duration
	broker         string
	heartbeat      time.Duration
	httpAddr       string
	dbPath         string
	printStatus    bool
}

func main() {
	var cfg appConfig
	flag.DurationVar(&cfg.poll, "poll", 10*time.Millisecond, "RF polling interval")
	flag.DurationVar(&cfg.debounce, "debounce", 50*time.Millisecond, "Minimum spacing between accepted presses")
	flag.DurationVar(&cfg.doubleWindow, "double-window", 600*time.Millisecond, "Window for a second click to pair with the first")
	flag.DurationVar(&cfg.tripleWindow, "triple-window", 900*time.Millisecond, "Window for a third click; also the sequence timeout")
	flag.IntVar(&cfg.minPulses, "min-pulses", 50, "Noise floor for RF burst lengths")
	flag.IntVar(&cfg.maxPulses, "max-pulses", 400, "Saturation cap for RF burst lengths")
	flag.IntVar(&cfg.rfPin, "pin-rf", rf.DefaultPin, "BCM pin number for the RF receiver")
	flag.IntVar(&cfg.feederPin, "pin-feeder", feeder.DefaultPin, "BCM pin number for the feeder motor")
	flag.DurationVar(&cfg.manualDispense, "manual-dispense", 1500*time.Millisecond, "Feeder run time for a single-click manual dispense")
	flag.DurationVar(&cfg.barkWindow, "bark-window", time.Duration(bark.DefaultWindowMs)*time.Millisecond, "Suppression window between punishments")
	flag.DurationVar(&cfg.cooldown, "cooldown", 7*time.Second, "Minimum gap between quiet-time rewards")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&cfg.dbPath, "db", "/var/lib/dog-trainer/training.db", "Training progress database path")
	flag.BoolVar(&cfg.printStatus, "print-status", false, "Print persisted training progress and exit")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg appConfig) error {
	// Print status mode
	if cfg.printStatus {
		st, err := store.OpenBolt(cfg.dbPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer st.Close()
		m := reinforce.NewManager(st, reinforce.DefaultLevels(), reinforce.Options{})
		if err := m.Begin(0); err != nil {
			return fmt.Errorf("load training state: %w", err)
		}
		fmt.Printf("level: %d\nsuccesses: %d\nquiet target: %dms\n",
			m.Level(), m.SuccessesAtLevel(), m.CurrentQuietTargetMs())
		return nil
	}

	// Initialize RF receiver
	source, err := rf.NewRealSource(cfg.rfPin)
	if err != nil {
		return fmt.Errorf("init rf receiver: %w", err)
	}
	defer source.Close()

	// Initialize feeder
	dispenser, err := feeder.NewRealDispenser(cfg.feederPin)
	if err != nil {
		return fmt.Errorf("init feeder: %w", err)
	}
	defer dispenser.Close()

	// Initialize persistence
	st, err := store.OpenBolt(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	// Initialize MQTT
	commands := make(chan mqtt.Command, 8)
	barks := make(chan mqtt.BarkReport, 8)
	publisher, err := mqtt.NewRealClient(cfg.broker, commands, barks)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:         cfg.poll.Milliseconds(),
		DebounceMs:     cfg.debounce.Milliseconds(),
		DoubleWindowMs: cfg.doubleWindow.Milliseconds(),
		TripleWindowMs: cfg.tripleWindow.Milliseconds(),
		MinPulses:      cfg.minPulses,
		MaxPulses:      cfg.maxPulses,
		BarkWindowMs:   cfg.barkWindow.Milliseconds(),
		HeartbeatMs:    cfg.heartbeat.Milliseconds(),
		Broker:         cfg.broker,
		HTTPPort:       cfg.httpAddr,
		DBPath:         cfg.dbPath,
	})

	// Publish startup event with full status snapshot
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

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: poll=%v debounce=%v double=%v triple=%v broker=%s heartbeat=%v",
		cfg.poll, cfg.debounce, cfg.doubleWindow, cfg.tripleWindow, cfg.broker, cfg.heartbeat)

	detector := click.NewDetector(source, click.Config{
		MinPulses:           cfg.minPulses,
		MaxPulses:           cfg.maxPulses,
		DebounceMs:          uint32(cfg.debounce.Milliseconds()),
		DoubleClickWindowMs: uint32(cfg.doubleWindow.Milliseconds()),
		TripleClickWindowMs: uint32(cfg.tripleWindow.Milliseconds()),
	})

	manager := reinforce.NewManager(st, reinforce.DefaultLevels(), reinforce.Options{
		DispenseCooldownMs: uint32(cfg.cooldown.Milliseconds()),
	})

	barkGate := bark.NewWindow(uint32(cfg.barkWindow.Milliseconds()))

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	deps := loopDeps{
		detector:         detector,
		manager:          manager,
		barkGate:         barkGate,
		dispenser:        dispenser,
		publisher:        publisher,
		mqttStatus:       publisher,
		tracker:          tracker,
		heartbeat:        cfg.heartbeat,
		manualDispenseMs: uint32(cfg.manualDispense.Milliseconds()),
	}
	return runLoop(deps, time.Now, ticker.C, sigCh, commands, barks)
}

// loopDeps carries the collaborators runLoop drives, so tests can inject
// fakes for all of them.
type loopDeps struct {
	detector         *click.Detector
	manager          *reinforce.Manager
	barkGate         *bark.Window
	dispenser        feeder.Dispenser
	publisher        mqtt.Publisher
	mqttStatus       mqtt.ConnectionStatus
	tracker          *status.Tracker
	heartbeat        time.Duration
	manualDispenseMs uint32
}

func runLoop(d loopDeps, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, commands <-chan mqtt.Command, barks <-chan mqtt.BarkReport) error {
	startTime := now()
	millis := func(t time.Time) uint32 {
		return uint32(t.Sub(startTime).Milliseconds())
	}

	if err := d.manager.Begin(millis(startTime)); err != nil {
		return fmt.Errorf("load training state: %w", err)
	}
	log.Printf("training resumed: level=%d successes=%d quiet_target=%dms",
		d.manager.Level(), d.manager.SuccessesAtLevel(), d.manager.CurrentQuietTargetMs())

	var counts status.Counts
	lastHeartbeat := startTime

	for {
		select {
		case s := <-sig:
			t := now()
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if err := d.manager.Flush(millis(t)); err != nil {
				log.Printf("save training state: %v", err)
			}
			event := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				d.tracker.Update(d.detector.Status(), counts, d.detector.Backlog())
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case cmd := <-commands:
			nowMs := millis(now())
			if err := applyCommand(d, cmd, nowMs); err != nil {
				log.Printf("command %q: %v", cmd.Command, err)
			} else {
				log.Printf("applied command %q (value=%d)", cmd.Command, cmd.Value)
			}

		case <-barks:
			t := now()
			counts.Bark++
			d.manager.OnBark(millis(t))
			log.Printf("bark reported; quiet streak reset (level=%d)", d.manager.Level())
			publishEvent(d.publisher, t, "BARK", 0)

		case <-tick:
			t := now()
			nowMs := millis(t)

			for _, ev := range d.detector.Poll(click.Millis(nowMs)) {
				log.Printf("click: %s", ev.Kind)
				publishEvent(d.publisher, t, string(ev.Kind), 0)

				switch ev.Kind {
				case click.KindSingle:
					counts.Single++
					runFeeder(d, t, d.manualDispenseMs, &counts)
				case click.KindDouble:
					counts.Double++
					if d.barkGate.ShouldPunish(nowMs) {
						counts.Punish++
						publishEvent(d.publisher, t, "PUNISH", 0)
					} else {
						log.Printf("punish suppressed (%d in window)", d.barkGate.Suppressed())
					}
				case click.KindTriple:
					counts.Triple++
					if err := d.manager.ResetState(nowMs); err != nil {
						log.Printf("reset training state: %v", err)
					} else {
						log.Printf("training reset to level 0")
					}
				}
			}

			if d.manager.Tick(nowMs) {
				ms := d.manager.ConsumePendingDispenseMs()
				log.Printf("quiet success: level=%d streak=%d dispense=%dms",
					d.manager.Level(), d.manager.SuccessesAtLevel(), ms)
				runFeeder(d, t, ms, &counts)
			}

			// Check for heartbeat
			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				log.Printf("heartbeat: learned=%v level=%d single=%d double=%d triple=%d bark=%d",
					d.detector.Learned(), d.manager.Level(),
					counts.Single, counts.Double, counts.Triple, counts.Bark)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					updateTracker(d, counts)
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if d.tracker != nil {
				updateTracker(d, counts)
			}
		}
	}
}

func updateTracker(d loopDeps, counts status.Counts) {
	d.tracker.Update(d.detector.Status(), counts, d.detector.Backlog())
	d.tracker.UpdateTraining(status.Training{
		Level:         uint8(d.manager.Level()),
		Successes:     uint8(d.manager.SuccessesAtLevel()),
		QuietTargetMs: d.manager.CurrentQuietTargetMs(),
	})
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
}

// runFeeder dispenses for ms milliseconds and reports the run over MQTT.
func runFeeder(d loopDeps, t time.Time, ms uint32, counts *status.Counts) {
	if ms == 0 {
		return
	}
	if err := d.dispenser.Dispense(time.Duration(ms) * time.Millisecond); err != nil {
		log.Printf("dispense error: %v", err)
		return
	}
	counts.Dispense++
	publishEvent(d.publisher, t, "DISPENSE", ms)
}

func publishEvent(p mqtt.Publisher, t time.Time, typ string, durationMs uint32) {
	err := p.Publish(mqtt.Event{Timestamp: t, Type: typ, DurationMs: durationMs})
	if err != nil {
		log.Printf("publish error: %v", err)
		// Don't crash on publish failure
	}
}

func applyCommand(d loopDeps, cmd mqtt.Command, nowMs uint32) error {
	switch cmd.Command {
	case mqtt.CmdReset:
		d.detector.Reset()
	case mqtt.CmdResetTraining:
		return d.manager.ResetState(nowMs)
	case mqtt.CmdSetLevel:
		return d.manager.SetLevel(int(cmd.Value), nowMs)
	case mqtt.CmdSetDoubleWindow:
		if cmd.Value <= 0 {
			return fmt.Errorf("value must be positive, got %d", cmd.Value)
		}
		d.detector.SetDoubleClickWindow(uint32(cmd.Value))
	case mqtt.CmdSetTripleWindow:
		if cmd.Value <= 0 {
			return fmt.Errorf("value must be positive, got %d", cmd.Value)
		}
		d.detector.SetTripleClickWindow(uint32(cmd.Value))
	case mqtt.CmdSetDebounce:
		if cmd.Value < 0 {
			return fmt.Errorf("value must not be negative, got %d", cmd.Value)
		}
		d.detector.SetDebounce(uint32(cmd.Value))
	case mqtt.CmdSetMinPulses:
		if cmd.Value <= 0 {
			return fmt.Errorf("value must be positive, got %d", cmd.Value)
		}
		d.detector.SetMinPulses(int(cmd.Value))
	case mqtt.CmdSetMaxPulses:
		if cmd.Value <= 0 {
			return fmt.Errorf("value must be positive, got %d", cmd.Value)
		}
		d.detector.SetMaxPulses(int(cmd.Value))
	case mqtt.CmdSetBarkWindow:
		if cmd.Value < 0 {
			return fmt.Errorf("value must not be negative, got %d", cmd.Value)
		}
		d.barkGate.SetWindow(uint32(cmd.Value))
	default:
		return fmt.Errorf("unknown command")
	}

	// Reflect runtime changes in the displayed config.
	if d.tracker != nil {
		cfg := d.tracker.Snapshot().Config
		dc := d.detector.Config()
		cfg.DebounceMs = int64(dc.DebounceMs)
		cfg.DoubleWindowMs = int64(dc.DoubleClickWindowMs)
		cfg.TripleWindowMs = int64(dc.TripleClickWindowMs)
		cfg.MinPulses = dc.MinPulses
		cfg.MaxPulses = dc.MaxPulses
		cfg.BarkWindowMs = int64(d.barkGate.WindowMs())
		d.tracker.SetConfig(cfg)
	}
	return nil
}
