package transport

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MQTTOptions configures the broker session.
type MQTTOptions struct {
	Broker       string
	ClientID     string
	FrameTopic   string
	CommandTopic string
}

// MQTT publishes frames on a topic and listens for commands on another.
type MQTT struct {
	client mqtt.Client
	opts   MQTTOptions
	log    *zap.Logger
}

// NewMQTT connects to the broker. The command subscription is renewed on
// every (re)connect.
func NewMQTT(opts MQTTOptions, onCommand CommandHandler, log *zap.Logger) (*MQTT, error) {
	log = log.With(zap.String("broker", opts.Broker))

	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			token := c.Subscribe(opts.CommandTopic, 0, commandHandler(onCommand))
			if token.Wait() && token.Error() != nil {
				log.Warn("MQTT subscribe failed", zap.String("topic", opts.CommandTopic), zap.Error(token.Error()))
				return
			}
			log.Info("MQTT subscribed", zap.String("topic", opts.CommandTopic))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("MQTT connection lost", zap.Error(err))
		})

	client := mqtt.NewClient(co)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect: %w", token.Error())
	}
	log.Info("connected to MQTT", zap.String("frames", opts.FrameTopic))

	return newMQTT(client, opts, log), nil
}

func newMQTT(client mqtt.Client, opts MQTTOptions, log *zap.Logger) *MQTT {
	return &MQTT{client: client, opts: opts, log: log}
}

func commandHandler(onCommand CommandHandler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		onCommand(msg.Payload())
	}
}

func (m *MQTT) Name() string {
	return "mqtt"
}

// Deliver publishes payload at QoS 0 without waiting for the token.
func (m *MQTT) Deliver(payload []byte) error {
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	m.client.Publish(m.opts.FrameTopic, 0, false, payload)
	return nil
}

// Close disconnects, allowing 250 ms for in-flight work.
func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}
