package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/i474232898/meteobeguda/internal/weather"
)

type fakeToken struct {
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publications; every other mqtt.Client method panics.
type fakeClient struct {
	mqtt.Client
	connected bool
	token     *fakeToken
	sent      []published
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.connected = false }

var _ = Describe("MQTTPublisher", func() {
	var (
		client    *fakeClient
		publisher *MQTTPublisher
		dashboard weather.Dashboard
	)

	BeforeEach(func() {
		client = &fakeClient{connected: true, token: &fakeToken{complete: true}}
		publisher = &MQTTPublisher{
			client:    client,
			cfg:       Config{Topic: "meteobeguda/dashboard", Retained: true},
			logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			connected: true,
			stopCh:    make(chan struct{}),
		}
		trend := -1.1
		dashboard = weather.Dashboard{
			Date:        weather.Date{Year: 2022, Month: time.March, Day: 12},
			Temperature: weather.TemperatureSnapshot{Temperature: 10.4, Trend: &trend},
			Wind:        weather.WindSnapshot{Direction: weather.CompassNO, Name: "Mestral"},
		}
	})

	Describe("NewMQTTPublisher", func() {
		It("should generate a client id when none is configured", func() {
			p := NewMQTTPublisher(Config{Broker: "localhost", Port: 1883, Topic: "t"}, publisher.logger)
			Expect(p.cfg.ClientID).To(HavePrefix("meteobeguda-"))
			Expect(p.IsConnected()).To(BeFalse())
		})

		It("should keep an explicit client id", func() {
			p := NewMQTTPublisher(Config{Broker: "localhost", Port: 1883, Topic: "t", ClientID: "station-1"}, publisher.logger)
			Expect(p.cfg.ClientID).To(Equal("station-1"))
		})
	})

	Describe("PublishDashboard", func() {
		Context("when connected", func() {
			It("should publish the dashboard as JSON with QoS 1", func() {
				Expect(publisher.PublishDashboard(context.Background(), dashboard)).To(Succeed())
				Expect(client.sent).To(HaveLen(1))

				msg := client.sent[0]
				Expect(msg.topic).To(Equal("meteobeguda/dashboard"))
				Expect(msg.qos).To(Equal(byte(1)))
				Expect(msg.retained).To(BeTrue())

				var decoded map[string]any
				Expect(json.Unmarshal(msg.payload, &decoded)).To(Succeed())
				Expect(decoded["date"]).To(Equal("2022-03-12"))
				Expect(decoded["wind"]).To(HaveKeyWithValue("name", "Mestral"))
				Expect(decoded["temperature"]).To(HaveKeyWithValue("trend", -1.1))
			})

			It("should surface broker errors", func() {
				client.token = &fakeToken{complete: true, err: errors.New("not authorized")}
				err := publisher.PublishDashboard(context.Background(), dashboard)
				Expect(err).To(MatchError(ContainSubstring("not authorized")))
			})

			It("should time out when the broker never acknowledges", func() {
				client.token = &fakeToken{complete: false}
				err := publisher.PublishDashboard(context.Background(), dashboard)
				Expect(err).To(HaveOccurred())
				Expect(strings.Contains(err.Error(), "timeout")).To(BeTrue())
			})
		})

		Context("when disconnected", func() {
			It("should refuse to publish", func() {
				client.connected = false
				err := publisher.PublishDashboard(context.Background(), dashboard)
				Expect(err).To(MatchError(ErrNotConnected))
				Expect(client.sent).To(BeEmpty())
			})
		})
	})

	Describe("Connect", func() {
		It("should fail once the publisher is stopped", func() {
			publisher.Disconnect()
			Expect(publisher.Connect(context.Background())).To(MatchError(ErrStopped))
		})

		It("should be a no-op when already connected", func() {
			Expect(publisher.Connect(context.Background())).To(Succeed())
		})
	})
})
