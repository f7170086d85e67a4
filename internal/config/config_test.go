package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "default.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("expected valid path, got error: %v", err)
	}
}

func TestValidateConfigPath_PathTraversal(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"configs/../../../etc/shadow",
		"../configs/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for traversal path %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_WrongExtension(t *testing.T) {
	cases := []string{
		"configs/default.json",
		"configs/default.yml",
		"configs/default.txt",
		"configs/default",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for extension in %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_NotInConfigsDir(t *testing.T) {
	cases := []string{
		"other/default.yaml",
		"default.yaml",
		"/tmp/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for path outside configs/ %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_EmptyPath(t *testing.T) {
	if err := ValidateConfigPath(""); err == nil {
		t.Error("expected error for empty path, got nil")
	}
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
wifi:
  type: "nmcli"
  interface: "wlan0"
  ssid: "attendance"
  password: "secret"
  join_timeout_ms: 30000
  poll_interval_ms: 250
server:
  upload_url: "http://10.13.180.140:5000/upload"
  timeout_ms: 8000
pins:
  flash: 4
  buzzer: 13
  red_led: 2
  green_led: 12
camera:
  type: "gstreamer"
  source: "v4l2src"
  width: 800
  height: 600
  jpeg_quality: 70
display:
  type: "console"
timing:
  idle_interval_ms: 15000
  server_down_sleep_sec: 20
  network_down_sleep_sec: 90
power:
  type: "mock"
defaults:
  debug_level: 2
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WiFi.SSID != "attendance" {
		t.Errorf("wifi.ssid = %q, want %q", cfg.WiFi.SSID, "attendance")
	}
	if cfg.Server.UploadURL != "http://10.13.180.140:5000/upload" {
		t.Errorf("server.upload_url = %q", cfg.Server.UploadURL)
	}
	if cfg.Pins.Buzzer != 13 {
		t.Errorf("pins.buzzer = %d, want 13", cfg.Pins.Buzzer)
	}
	if cfg.Camera.Source != "v4l2src" {
		t.Errorf("camera.source = %q, want v4l2src", cfg.Camera.Source)
	}
	if cfg.Camera.JPEGQuality != 70 {
		t.Errorf("camera.jpeg_quality = %d, want 70", cfg.Camera.JPEGQuality)
	}
	if cfg.Power.Type != "mock" {
		t.Errorf("power.type = %q, want mock", cfg.Power.Type)
	}
	if cfg.Defaults.DebugLevel != 2 {
		t.Errorf("debug_level = %d, want 2", cfg.Defaults.DebugLevel)
	}
}

func TestLoad_Durations(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"JoinTimeout", cfg.JoinTimeout(), 30 * time.Second},
		{"JoinPollInterval", cfg.JoinPollInterval(), 250 * time.Millisecond},
		{"UploadTimeout", cfg.UploadTimeout(), 8 * time.Second},
		{"IdleInterval", cfg.IdleInterval(), 15 * time.Second},
		{"ServerDownSleep", cfg.ServerDownSleep(), 20 * time.Second},
		{"NetworkDownSleep", cfg.NetworkDownSleep(), 90 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
server:
  upload_url: "http://example.test/upload"
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.WiFi.Type != "nmcli" {
		t.Errorf("wifi.type default = %q, want nmcli", cfg.WiFi.Type)
	}
	if cfg.WiFi.Interface != "wlan0" {
		t.Errorf("wifi.interface default = %q, want wlan0", cfg.WiFi.Interface)
	}
	if cfg.Camera.Type != "gstreamer" {
		t.Errorf("camera.type default = %q, want gstreamer", cfg.Camera.Type)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("camera size default = %dx%d, want 640x480", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Display.Type != "ssd1306" {
		t.Errorf("display.type default = %q, want ssd1306", cfg.Display.Type)
	}
	if cfg.Power.Type != "rtcwake" || cfg.Power.RTCWakeMode != "off" {
		t.Errorf("power default = %+v, want rtcwake/off", cfg.Power)
	}

	cases := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"JoinTimeout", cfg.JoinTimeout(), time.Minute},
		{"JoinPollInterval", cfg.JoinPollInterval(), 500 * time.Millisecond},
		{"IdleInterval", cfg.IdleInterval(), 20 * time.Second},
		{"ServerDownSleep", cfg.ServerDownSleep(), 30 * time.Second},
		{"NetworkDownSleep", cfg.NetworkDownSleep(), time.Minute},
		{"ResultHold", cfg.ResultHold(), 2 * time.Second},
		{"ReinitFailHold", cfg.ReinitFailHold(), 2 * time.Second},
		{"SplashHold", cfg.SplashHold(), 3 * time.Second},
		{"SleepMessageHold", cfg.SleepMessageHold(), time.Second},
		{"ReinitSettle", cfg.ReinitSettle(), 100 * time.Millisecond},
		{"StabilizeDelay", cfg.StabilizeDelay(), 100 * time.Millisecond},
		{"FlashLead", cfg.FlashLead(), 300 * time.Millisecond},
		{"IndicatorBlink", cfg.IndicatorBlink(), 100 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
			}
		})
	}
	if cfg.Timing.IndicatorBlinkCount != 3 {
		t.Errorf("indicator_blink_count default = %d, want 3", cfg.Timing.IndicatorBlinkCount)
	}
}

func TestLoad_MissingUploadURL(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing server.upload_url, got nil")
	}
}

func TestLoad_BadUploadScheme(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
server:
  upload_url: "ftp://example.test/upload"
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for ftp upload_url, got nil")
	}
}

func TestLoad_MissingSSID(t *testing.T) {
	yaml := `
server:
  upload_url: "http://example.test/upload"
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing wifi.ssid, got nil")
	}
}

func TestLoad_MockWiFiNeedsNoSSID(t *testing.T) {
	yaml := `
wifi:
  type: "mock"
server:
  upload_url: "http://example.test/upload"
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err != nil {
		t.Errorf("mock wifi should not require an ssid, got: %v", err)
	}
}

func TestLoad_ServerDownMustBeShorterThanNetworkDown(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
server:
  upload_url: "http://example.test/upload"
timing:
  server_down_sleep_sec: 120
  network_down_sleep_sec: 60
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error when server-down sleep >= network-down sleep, got nil")
	}
	if !strings.Contains(err.Error(), "server_down_sleep_sec") {
		t.Errorf("error should mention server_down_sleep_sec, got: %v", err)
	}
}

func TestLoad_UnsupportedTypes(t *testing.T) {
	cases := []struct {
		name    string
		section string
	}{
		{"wifi", "wifi:\n  type: \"wpa_cli\"\n  ssid: \"x\"\n"},
		{"camera", "wifi:\n  ssid: \"x\"\ncamera:\n  type: \"nikon_d90_gpio\"\n"},
		{"display", "wifi:\n  ssid: \"x\"\ndisplay:\n  type: \"hd44780\"\n"},
		{"power", "wifi:\n  ssid: \"x\"\npower:\n  type: \"acpi\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			yaml := tc.section + "server:\n  upload_url: \"http://example.test/upload\"\n"
			path := writeConfig(t, yaml)
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for unsupported %s type, got nil", tc.name)
			}
		})
	}
}

func TestLoad_JPEGQualityOutOfRange(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
server:
  upload_url: "http://example.test/upload"
camera:
  jpeg_quality: 101
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for jpeg_quality 101, got nil")
	}
}

func TestLoad_DebugLevelOutOfRange(t *testing.T) {
	yaml := `
wifi:
  ssid: "attendance"
server:
  upload_url: "http://example.test/upload"
defaults:
  debug_level: 7
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for debug_level 7, got nil")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "configs", "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "wifi: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_ShippedProfiles(t *testing.T) {
	cases := []struct {
		file    string
		camera  string
		display string
		mock    bool
	}{
		{"default.yaml", "mock", "console", true},
		{"device.yaml", "gstreamer", "ssd1306", false},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			cfg, err := Load(filepath.Join("..", "..", "configs", tc.file))
			if err != nil {
				t.Fatalf("Load(%s) error: %v", tc.file, err)
			}
			if cfg.Camera.Type != tc.camera || cfg.Display.Type != tc.display || cfg.Defaults.MockGPIO != tc.mock {
				t.Errorf("camera=%q display=%q mock=%v", cfg.Camera.Type, cfg.Display.Type, cfg.Defaults.MockGPIO)
			}
			if cfg.IdleInterval() != 20*time.Second {
				t.Errorf("IdleInterval() = %v, want 20s", cfg.IdleInterval())
			}
		})
	}
}
