// mqttdump runs a standalone broker and prints everything published on
// the given topic filter. Useful while wiring up the duration signal.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/sirupsen/logrus"
)

func main() {
	address := flag.String("addr", ":1883", "listen address")
	filter := flag.String("filter", "#", "topic filter to dump")
	flag.Parse()

	server := mqtt.New(&mqtt.Options{
		InlineClient: true,
	})
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: *address})
	err := server.AddListener(tcp)
	if err != nil {
		log.Fatal(err)
	}

	err = server.Serve()
	if err != nil {
		log.Fatal(err)
	}

	err = server.Subscribe(*filter, 1, func(cl *mqtt.Client, sub packets.Subscription, pk packets.Packet) {
		logrus.Infof("%s: %s", pk.TopicName, string(pk.Payload))
	})
	if err != nil {
		logrus.Error(err)
		return
	}

	<-ctx.Done()
	server.Close()
}
