// Package mqtt is the controller's device bus client, built on
// eclipse/paho.mqtt.golang.
//
// The bus sits between dockctl and whatever drives the physical blocks (a
// game-side bridge or a simulator):
//
//	dockctl ↔ broker ↔ device bridge
//
// dockctl publishes block commands, its status snapshot, transitions and
// diagnostics; bridges report connector state and operators publish invoke
// requests. Topics builds every topic name.
//
// The client reconnects with backoff, re-subscribes after each reconnect and
// keeps a retained presence message on dockctl/system/status, with a broker
// will that flips it to offline if the process dies.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllBlockStates(), 1,
//	    func(topic string, payload []byte) error {
//	        return inv.ApplyState(strings.TrimPrefix(topic, "dockctl/state/"), report)
//	    })
package mqtt
