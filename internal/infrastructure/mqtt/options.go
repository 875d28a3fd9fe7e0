package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/config"
)

const (
	connectTimeout   = 10 * time.Second
	operationTimeout = 5 * time.Second
	keepAlive        = 60 * time.Second

	// disconnectQuiesce is in milliseconds, as paho expects.
	disconnectQuiesce = 1000

	maxQoS         = 2
	maxPayloadSize = 1 << 20
)

// Presence states published on Topics.SystemStatus.
const (
	presenceOnline  = "online"
	presenceOffline = "offline"

	reasonCrash    = "unexpected_disconnect"
	reasonShutdown = "graceful_shutdown"
)

// presence is the retained payload on dockctl/system/status.
type presence struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func presencePayload(clientID, status, reason string) []byte {
	//nolint:errcheck // struct of strings always marshals
	data, _ := json.Marshal(presence{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return data
}

// brokerURL returns tcp:// or ssl:// depending on cfg.Broker.TLS.
func brokerURL(cfg config.MQTTConfig) string {
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)
}

// newClientOptions maps the mqtt config section onto paho options,
// including the offline will.
func newClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL(cfg)).
		SetClientID(cfg.Broker.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive)

	// Handlers publish (an invoke message issues device commands), which
	// deadlocks paho's ordered router; run each handler on its own goroutine.
	opts.SetOrderMatters(false)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	will := presencePayload(cfg.Broker.ClientID, presenceOffline, reasonCrash)
	opts.SetBinaryWill(Topics{}.SystemStatus(), will, 1, true)

	return opts
}
