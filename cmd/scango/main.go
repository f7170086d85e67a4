package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cjeanneret/ScanGo/internal/config"
	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/board"
	"github.com/cjeanneret/ScanGo/internal/hw/display"
	"github.com/cjeanneret/ScanGo/internal/logic/feedback"
	"github.com/cjeanneret/ScanGo/internal/logic/netjoin"
	"github.com/cjeanneret/ScanGo/internal/logic/node"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
	"github.com/cjeanneret/ScanGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start status server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	simulateWake := flag.Bool("simulate-wake", false, "with power.type mock, boot again after each suspension")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	if *simulateWake && cfg.Power.Type != "mock" {
		log.Fatalf("-simulate-wake requires power.type mock, got %q", cfg.Power.Type)
	}

	var status *web.StatusBoard
	var srv *web.Server
	if port := webPort.port(); port > 0 {
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))
		status = web.NewStatusBoard(broadcaster)
		srv = web.NewServer(fmt.Sprintf(":%d", port), broadcaster, status)
	}

	g, gctx := errgroup.WithContext(ctx)
	// The status server lives as long as the node does.
	nodeCtx, stopNode := context.WithCancel(gctx)
	defer stopNode()

	g.Go(func() error {
		defer stopNode()
		return runNode(nodeCtx, cfg, status, *simulateWake)
	})
	if srv != nil {
		g.Go(func() error {
			return srv.Run(nodeCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("scango: %v", err)
	}
}

// runNode boots the node and returns once it has suspended. With
// simulateWake it waits out the suspension and boots again from scratch.
func runNode(ctx context.Context, cfg *config.Config, status *web.StatusBoard, simulateWake bool) error {
	for {
		policy, err := runBoot(ctx, cfg, status)
		if errors.Is(err, context.Canceled) {
			debug.Info("Shutdown requested")
			return nil
		}
		if err != nil {
			return err
		}
		if !simulateWake {
			return nil
		}

		debug.Info("Simulated wake in %v", policy.Duration)
		select {
		case <-time.After(policy.Duration):
		case <-ctx.Done():
			return nil
		}
	}
}

// runBoot builds the hardware and the node for one boot and runs it until
// it suspends. Every component is constructed anew.
func runBoot(ctx context.Context, cfg *config.Config, status *web.StatusBoard) (node.SleepPolicy, error) {
	var extra []display.Display
	var observer node.Observer
	if status != nil {
		status.Reset()
		extra = append(extra, status)
		observer = status
	}

	hw, err := board.New(cfg, extra...)
	if err != nil {
		return node.SleepPolicy{}, fmt.Errorf("init board: %w", err)
	}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Printf("closing board failed: %v", err)
		}
	}()

	ctrl := newController(cfg, hw, observer)
	debug.Section("Running")
	return ctrl.Run(ctx)
}

// newController wires the node logic to the board.
func newController(cfg *config.Config, hw *board.Board, observer node.Observer) *node.Controller {
	executor := scan.NewExecutor(hw.Camera, hw.Flash, hw.Uploader, hw.Display, scan.Timing{
		ReinitSettle: cfg.ReinitSettle(),
		Stabilize:    cfg.StabilizeDelay(),
		FlashLead:    cfg.FlashLead(),
	})
	dispatcher := feedback.NewDispatcher(hw.Display, hw.Buzzer, hw.Green, hw.Red, feedback.Timing{
		ResultHold:     cfg.ResultHold(),
		ReinitFailHold: cfg.ReinitFailHold(),
		BlinkHalf:      cfg.IndicatorBlink(),
		BlinkCount:     cfg.Timing.IndicatorBlinkCount,
	})
	joiner := netjoin.New(hw.Network, cfg.WiFi.SSID, cfg.WiFi.Password, cfg.JoinPollInterval())

	return node.NewController(node.Deps{
		Display:   hw.Display,
		Sound:     hw.Buzzer,
		Camera:    hw.Camera,
		Network:   joiner,
		Cycles:    executor,
		Feedback:  dispatcher,
		Suspender: hw.Suspender,
		Observer:  observer,
	}, node.DefaultPolicies(cfg.NetworkDownSleep(), cfg.ServerDownSleep()), node.Timing{
		Splash:       cfg.SplashHold(),
		JoinTimeout:  cfg.JoinTimeout(),
		Idle:         cfg.IdleInterval(),
		SleepMessage: cfg.SleepMessageHold(),
	})
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
