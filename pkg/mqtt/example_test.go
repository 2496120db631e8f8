package mqtt_test

import (
	"context"
	"fmt"
	"time"

	"github.com/autoscope-io/autoscope/pkg/log"
	"github.com/autoscope-io/autoscope/pkg/mqtt"
)

// ExampleClient shows the standard usage flow of the Autoscope MQTT component:
// how the hub's ingest plane (or the demo agent) initializes a client,
// subscribes to a topic filter and publishes a message.
func ExampleClient() {
	// 1. Prepare the configuration.
	// In a real binary these values come from pkg/options / CLI flags.
	cfg := &mqtt.ClientConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "example-component-001",
		Username:       "admin",
		Password:       "public",
		KeepAlive:      60,
		ConnectTimeout: 5 * time.Second,
		// Lab brokers use self-signed certificates.
		InsecureSkipVerify: true,
		// Subscribers that must not miss messages keep CleanStart false.
		CleanStart: false,
	}

	// 2. Create the client. No connection is made yet.
	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "Failed to create MQTT client")
		return
	}

	// 3. Start the client (non-blocking). The connection is established in
	// the background with automatic reconnects.
	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		log.Error(err, "Failed to start MQTT client")
		return
	}

	// 4. Define the message handler. Handlers run in their own goroutine,
	// so avoid long blocking work inside them.
	myHandler := func(ctx context.Context, topic string, payload []byte) {
		fmt.Printf("Received message on topic %s: %s\n", topic, string(payload))
	}

	// 5. Subscribe. Wildcard filters are supported, and the client
	// automatically re-subscribes after a reconnect.
	subTopic := "sovd/v1/data/+"
	if err := client.Subscribe(ctx, subTopic, 1, myHandler); err != nil {
		log.Error(err, "Failed to subscribe", "topic", subTopic)
	}

	// 6. Optionally block until the connection is ready, e.g. before
	// reporting readiness.
	fmt.Println("Waiting for connection...")
	if err := client.AwaitConnection(ctx); err != nil {
		log.Error(err, "Connection timed out")
		return
	}
	fmt.Println("MQTT Connected!")

	// 7. Publish with QoS 1 for at-least-once delivery.
	pubTopic := "sovd/v1/data/Brakes"
	payload := []byte(`{"key": "TempC", "value": 48}`)
	if err := client.Publish(ctx, pubTopic, 1, false, payload); err != nil {
		log.Error(err, "Failed to publish message", "topic", pubTopic)
	}

	// 8. Graceful shutdown.
	client.Disconnect(ctx)
}
