package mqtt

import (
	"context"
	"encoding/json"
	"sync"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/state"
)

// Start boots the embedded broker on address. External consumers (and the
// duration-signal publisher) connect to it; the daemon itself talks to it
// through the inline client.
func Start(ctx context.Context, wg *sync.WaitGroup, address string) (*mqttv2.Server, error) {
	wg.Add(1)
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
	err := server.AddListener(tcp)
	if err != nil {
		return server, err
	}

	err = server.Serve()
	if err != nil {
		return server, err
	}

	go func() {
		<-ctx.Done()
		server.Close()
		wg.Done()
	}()
	return server, nil
}

// PublishState publishes the sensor state retained so late subscribers
// see the latest evaluation.
func PublishState(server *mqttv2.Server, topic string, s *state.State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return server.Publish(topic, b, true, 0)
}
