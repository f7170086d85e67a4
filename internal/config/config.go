package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WiFiConfig holds the network credentials and join behaviour.
type WiFiConfig struct {
	Type           string `yaml:"type"`             // "nmcli" or "mock"
	Interface      string `yaml:"interface"`        // e.g., "wlan0"
	SSID           string `yaml:"ssid"`             // network name
	Password       string `yaml:"password"`         // WPA passphrase
	JoinTimeoutMs  int    `yaml:"join_timeout_ms"`  // give up joining after this long
	PollIntervalMs int    `yaml:"poll_interval_ms"` // join status poll cadence
}

// ServerConfig describes the remote classifier endpoint.
type ServerConfig struct {
	UploadURL string `yaml:"upload_url"` // e.g., "http://10.13.180.140:5000/upload"
	TimeoutMs int    `yaml:"timeout_ms"` // transport timeout for one upload
}

// PinsConfig holds the BCM pin numbers of the digital outputs.
type PinsConfig struct {
	Flash    int `yaml:"flash"`
	Buzzer   int `yaml:"buzzer"` // must be PWM capable (12, 13, 18 or 19)
	RedLED   int `yaml:"red_led"`
	GreenLED int `yaml:"green_led"`
}

// CameraConfig describes how frames are acquired.
// Type selects a concrete implementation ("gstreamer" or "mock").
type CameraConfig struct {
	Type             string `yaml:"type"`
	Source           string `yaml:"source"`             // GStreamer source element, e.g. "libcamerasrc"
	Width            int    `yaml:"width"`              // e.g., 640
	Height           int    `yaml:"height"`             // e.g., 480
	JPEGQuality      int    `yaml:"jpeg_quality"`       // 1-100
	CaptureTimeoutMs int    `yaml:"capture_timeout_ms"` // max wait for one frame
}

// DisplayConfig selects the text display.
type DisplayConfig struct {
	Type   string `yaml:"type"`    // "ssd1306" or "console"
	I2CBus string `yaml:"i2c_bus"` // periph bus name, "" for the first bus
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// TimingConfig holds every fixed delay of the node.
type TimingConfig struct {
	IdleIntervalMs      int `yaml:"idle_interval_ms"`       // wait between cycles
	ServerDownSleepSec  int `yaml:"server_down_sleep_sec"`  // suspension after an unreachable server
	NetworkDownSleepSec int `yaml:"network_down_sleep_sec"` // suspension after a join timeout
	ResultHoldMs        int `yaml:"result_hold_ms"`         // keep a verdict on screen
	ReinitFailHoldMs    int `yaml:"reinit_fail_hold_ms"`    // keep the re-init failure on screen
	SplashHoldMs        int `yaml:"splash_hold_ms"`         // boot splash screen
	SleepMessageHoldMs  int `yaml:"sleep_message_hold_ms"`  // sleep screen before arming the timer
	ReinitSettleMs      int `yaml:"reinit_settle_ms"`       // pause between camera deinit and init
	StabilizeDelayMs    int `yaml:"stabilize_delay_ms"`     // sensor settle after init
	FlashLeadMs         int `yaml:"flash_lead_ms"`          // flash on before the shutter
	IndicatorBlinkMs    int `yaml:"indicator_blink_ms"`     // LED on/off half period
	IndicatorBlinkCount int `yaml:"indicator_blink_count"`  // LED blinks per result
}

// PowerConfig selects the suspension mechanism.
type PowerConfig struct {
	Type        string `yaml:"type"`         // "rtcwake" or "mock"
	RTCWakeMode string `yaml:"rtcwake_mode"` // rtcwake -m value, e.g. "off" or "mem"
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	WiFi     WiFiConfig     `yaml:"wifi"`
	Server   ServerConfig   `yaml:"server"`
	Pins     PinsConfig     `yaml:"pins"`
	Camera   CameraConfig   `yaml:"camera"`
	Display  DisplayConfig  `yaml:"display"`
	Timing   TimingConfig   `yaml:"timing"`
	Power    PowerConfig    `yaml:"power"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath rejects paths that are not a .yaml file directly inside
// a configs/ directory.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	clean := filepath.Clean(path)
	if strings.Contains(filepath.ToSlash(path), "..") {
		return fmt.Errorf("config path must not contain '..': %s", path)
	}
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config file must have a .yaml extension: %s", path)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config file must live in a configs/ directory: %s", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.WiFi.Type == "" {
		cfg.WiFi.Type = "nmcli"
	}
	if cfg.WiFi.Interface == "" {
		cfg.WiFi.Interface = "wlan0"
	}
	if cfg.WiFi.JoinTimeoutMs <= 0 {
		cfg.WiFi.JoinTimeoutMs = 60000 // 1 minute
	}
	if cfg.WiFi.PollIntervalMs <= 0 {
		cfg.WiFi.PollIntervalMs = 500
	}
	if cfg.Server.TimeoutMs <= 0 {
		cfg.Server.TimeoutMs = 15000
	}

	if cfg.Camera.Type == "" {
		cfg.Camera.Type = "gstreamer"
	}
	if cfg.Camera.Source == "" {
		cfg.Camera.Source = "libcamerasrc"
	}
	if cfg.Camera.Width <= 0 {
		cfg.Camera.Width = 640 // VGA
	}
	if cfg.Camera.Height <= 0 {
		cfg.Camera.Height = 480
	}
	if cfg.Camera.JPEGQuality <= 0 {
		cfg.Camera.JPEGQuality = 85
	}
	if cfg.Camera.CaptureTimeoutMs <= 0 {
		cfg.Camera.CaptureTimeoutMs = 5000
	}

	if cfg.Display.Type == "" {
		cfg.Display.Type = "ssd1306"
	}
	if cfg.Display.Width <= 0 {
		cfg.Display.Width = 128
	}
	if cfg.Display.Height <= 0 {
		cfg.Display.Height = 64
	}

	t := &cfg.Timing
	setDefault(&t.IdleIntervalMs, 20000)
	setDefault(&t.ServerDownSleepSec, 30)
	setDefault(&t.NetworkDownSleepSec, 60)
	setDefault(&t.ResultHoldMs, 2000)
	setDefault(&t.ReinitFailHoldMs, 2000)
	setDefault(&t.SplashHoldMs, 3000)
	setDefault(&t.SleepMessageHoldMs, 1000)
	setDefault(&t.ReinitSettleMs, 100)
	setDefault(&t.StabilizeDelayMs, 100)
	setDefault(&t.FlashLeadMs, 300)
	setDefault(&t.IndicatorBlinkMs, 100)
	setDefault(&t.IndicatorBlinkCount, 3)

	if cfg.Power.Type == "" {
		cfg.Power.Type = "rtcwake"
	}
	if cfg.Power.RTCWakeMode == "" {
		cfg.Power.RTCWakeMode = "off"
	}
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func validate(cfg *Config) error {
	if cfg.Server.UploadURL == "" {
		return fmt.Errorf("server.upload_url is required")
	}
	u, err := url.Parse(cfg.Server.UploadURL)
	if err != nil {
		return fmt.Errorf("server.upload_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.upload_url must be http or https, got %q", u.Scheme)
	}
	if cfg.WiFi.Type != "mock" && cfg.WiFi.SSID == "" {
		return fmt.Errorf("wifi.ssid is required")
	}
	if cfg.Camera.JPEGQuality > 100 {
		return fmt.Errorf("camera.jpeg_quality must be between 1 and 100, got %d", cfg.Camera.JPEGQuality)
	}
	if cfg.Timing.ServerDownSleepSec >= cfg.Timing.NetworkDownSleepSec {
		return fmt.Errorf("timing.server_down_sleep_sec (%d) must be shorter than timing.network_down_sleep_sec (%d)",
			cfg.Timing.ServerDownSleepSec, cfg.Timing.NetworkDownSleepSec)
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	switch cfg.WiFi.Type {
	case "nmcli", "mock":
	default:
		return fmt.Errorf("unsupported wifi.type: %s", cfg.WiFi.Type)
	}
	switch cfg.Camera.Type {
	case "gstreamer", "mock":
	default:
		return fmt.Errorf("unsupported camera.type: %s", cfg.Camera.Type)
	}
	switch cfg.Display.Type {
	case "ssd1306", "console":
	default:
		return fmt.Errorf("unsupported display.type: %s", cfg.Display.Type)
	}
	switch cfg.Power.Type {
	case "rtcwake", "mock":
	default:
		return fmt.Errorf("unsupported power.type: %s", cfg.Power.Type)
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// JoinTimeout returns the network join bound.
func (c *Config) JoinTimeout() time.Duration { return ms(c.WiFi.JoinTimeoutMs) }

// JoinPollInterval returns the join status poll cadence.
func (c *Config) JoinPollInterval() time.Duration { return ms(c.WiFi.PollIntervalMs) }

// UploadTimeout returns the transport timeout for one upload.
func (c *Config) UploadTimeout() time.Duration { return ms(c.Server.TimeoutMs) }

// CaptureTimeout returns the maximum wait for one frame.
func (c *Config) CaptureTimeout() time.Duration { return ms(c.Camera.CaptureTimeoutMs) }

// IdleInterval returns the wait between two cycles.
func (c *Config) IdleInterval() time.Duration { return ms(c.Timing.IdleIntervalMs) }

// ServerDownSleep returns the suspension used when the server is unreachable.
func (c *Config) ServerDownSleep() time.Duration {
	return time.Duration(c.Timing.ServerDownSleepSec) * time.Second
}

// NetworkDownSleep returns the suspension used when the network cannot be joined.
func (c *Config) NetworkDownSleep() time.Duration {
	return time.Duration(c.Timing.NetworkDownSleepSec) * time.Second
}

func (c *Config) ResultHold() time.Duration       { return ms(c.Timing.ResultHoldMs) }
func (c *Config) ReinitFailHold() time.Duration   { return ms(c.Timing.ReinitFailHoldMs) }
func (c *Config) SplashHold() time.Duration       { return ms(c.Timing.SplashHoldMs) }
func (c *Config) SleepMessageHold() time.Duration { return ms(c.Timing.SleepMessageHoldMs) }
func (c *Config) ReinitSettle() time.Duration     { return ms(c.Timing.ReinitSettleMs) }
func (c *Config) StabilizeDelay() time.Duration   { return ms(c.Timing.StabilizeDelayMs) }
func (c *Config) FlashLead() time.Duration        { return ms(c.Timing.FlashLeadMs) }
func (c *Config) IndicatorBlink() time.Duration   { return ms(c.Timing.IndicatorBlinkMs) }
