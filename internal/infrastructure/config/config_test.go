package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
controller:
  id: "dock-test"
  own_grid: "outpost"
  topology: "stationary"
  connector_name: "Bay 1 ToBase"
  tick_interval: 2s
inventory:
  path: "/tmp/site.yaml"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8090
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Controller.ID != "dock-test" {
		t.Errorf("Controller.ID = %q, want %q", cfg.Controller.ID, "dock-test")
	}
	if cfg.Controller.OwnGrid != "outpost" {
		t.Errorf("Controller.OwnGrid = %q, want %q", cfg.Controller.OwnGrid, "outpost")
	}
	if cfg.Controller.Topology != TopologyStationary {
		t.Errorf("Controller.Topology = %q, want %q", cfg.Controller.Topology, TopologyStationary)
	}
	if cfg.Controller.TickInterval != 2*time.Second {
		t.Errorf("Controller.TickInterval = %v, want 2s", cfg.Controller.TickInterval)
	}
	if cfg.Controller.DiagnosticHistory != 20 {
		t.Errorf("Controller.DiagnosticHistory = %d, want default 20", cfg.Controller.DiagnosticHistory)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
controller:
  id: "dock-test"
database:
  path: "/tmp/test.db"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected validation error for missing controller.own_grid, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Controller.OwnGrid = "rover"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}, wantErr: false},
		{name: "missing controller ID", mutate: func(c *Config) { c.Controller.ID = "" }, wantErr: true},
		{name: "missing own grid", mutate: func(c *Config) { c.Controller.OwnGrid = "" }, wantErr: true},
		{name: "unknown topology", mutate: func(c *Config) { c.Controller.Topology = "orbital" }, wantErr: true},
		{name: "zero tick interval", mutate: func(c *Config) { c.Controller.TickInterval = 0 }, wantErr: true},
		{name: "negative diagnostic history", mutate: func(c *Config) { c.Controller.DiagnosticHistory = -1 }, wantErr: true},
		{name: "missing inventory path", mutate: func(c *Config) { c.Inventory.Path = "" }, wantErr: true},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: true},
		{name: "invalid port low", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
		{name: "invalid port high", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: true},
		{name: "port ignored when API disabled", mutate: func(c *Config) { c.API.Enabled = false; c.API.Port = 0 }, wantErr: false},
		{name: "influxdb enabled without URL", mutate: func(c *Config) { c.InfluxDB.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("DOCKCTL_CONTROLLER_ID", "dock-env")
	t.Setenv("DOCKCTL_CONTROLLER_CONNECTOR_NAME", "Front")
	t.Setenv("DOCKCTL_INVENTORY_PATH", "/etc/dockctl/site.yaml")
	t.Setenv("DOCKCTL_DATABASE_PATH", "/custom/path.db")
	t.Setenv("DOCKCTL_MQTT_HOST", "mqtt.example.com")
	t.Setenv("DOCKCTL_MQTT_USERNAME", "testuser")
	t.Setenv("DOCKCTL_MQTT_PASSWORD", "testpass")
	t.Setenv("DOCKCTL_API_HOST", "192.168.1.1")
	t.Setenv("DOCKCTL_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	checks := []struct {
		field, got, want string
	}{
		{"Controller.ID", cfg.Controller.ID, "dock-env"},
		{"Controller.ConnectorName", cfg.Controller.ConnectorName, "Front"},
		{"Inventory.Path", cfg.Inventory.Path, "/etc/dockctl/site.yaml"},
		{"Database.Path", cfg.Database.Path, "/custom/path.db"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "mqtt.example.com"},
		{"MQTT.Auth.Username", cfg.MQTT.Auth.Username, "testuser"},
		{"MQTT.Auth.Password", cfg.MQTT.Auth.Password, "testpass"},
		{"API.Host", cfg.API.Host, "192.168.1.1"},
		{"InfluxDB.Token", cfg.InfluxDB.Token, "secret-token"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Controller.ID == "" {
		t.Error("defaultConfig should have non-empty Controller.ID")
	}
	if cfg.Controller.Topology != TopologyAuto {
		t.Errorf("defaultConfig Controller.Topology = %q, want %q", cfg.Controller.Topology, TopologyAuto)
	}
	if cfg.Controller.TickInterval != 1600*time.Millisecond {
		t.Errorf("defaultConfig Controller.TickInterval = %v, want 1.6s", cfg.Controller.TickInterval)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("defaultConfig API.Port = %d, want 8090", cfg.API.Port)
	}
}
