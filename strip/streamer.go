package strip

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// A Publisher delivers encoded frames.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTPublisher publishes frames with a paho client.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

// NewMQTTPublisher wraps a connected client.
func NewMQTTPublisher(client mqtt.Client) *MQTTPublisher {
	p := new(MQTTPublisher)
	p.client = client
	return p
}

// Publish sends payload and waits for the client to accept it.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	token.Wait()
	return token.Error()
}

// Connect builds and connects a paho client from c.
func Connect(c Config, onConnect mqtt.OnConnectHandler) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(c.Mqtt.URL).
		SetClientID(c.Mqtt.ClientID).
		SetUsername(c.Mqtt.Username).
		SetPassword(c.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(onConnect)
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connect to %s", c.Mqtt.URL)
	}

	return client, nil
}

// Streamer streams rendered frames of a Strip to an ledrx device.
type Streamer struct {
	strip     *Strip
	publisher Publisher
	topic     string
	interval  time.Duration
	logger    *zap.Logger
}

// NewStreamer creates a Streamer that publishes every interval.
func NewStreamer(strip *Strip, publisher Publisher, topic string, interval time.Duration, logger *zap.Logger) *Streamer {
	s := new(Streamer)
	s.strip = strip
	s.publisher = publisher
	s.topic = topic
	s.interval = interval
	s.logger = logger
	return s
}

// SendFrame renders and publishes a single frame.
func (s *Streamer) SendFrame() error {
	b, err := s.strip.Render().MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}

	return errors.Wrapf(s.publisher.Publish(s.topic, b), "publish to %s", s.topic)
}

// Run sends frames until ctx is done. Publish failures are logged and the
// stream carries on.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			if err := s.SendFrame(); err != nil {
				s.logger.Warn("frame not sent", zap.Error(err))
			}
		}
	}
}
