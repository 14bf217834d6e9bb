package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/san-kum/focpwm/internal/logger"
	"github.com/san-kum/focpwm/internal/loop"
)

const (
	connectAttempts = 3
	retryInterval   = 2 * time.Second
	publishTimeout  = time.Second
)

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes each record as JSON.
type MQTT struct {
	mu     sync.Mutex
	client publisher
	topic  string
	qos    byte
	close  func()
}

type payload struct {
	Routine   string     `json:"routine"`
	Period    int        `json:"period"`
	Angle     float64    `json:"angle"`
	Phase     [3]float64 `json:"uvw"`
	Alpha     float64    `json:"alpha"`
	Beta      float64    `json:"beta"`
	D         float64    `json:"id"`
	Q         float64    `json:"iq"`
	Sector    uint8      `json:"sector,omitempty"`
	Counter   [3]float64 `json:"counter"`
	Saturated bool       `json:"saturated,omitempty"`
}

// DialMQTT connects to broker, retrying a few times before giving up.
func DialMQTT(broker, clientID, topic string, qos byte) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(retryInterval)

	opts.OnConnect = func(c mqtt.Client) {
		or := c.OptionsReader()
		logger.L().Infof("connected to MQTT broker %v as %s", or.Servers(), or.ClientID())
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.L().Warnf("connection to MQTT broker lost: %v", err)
	}

	client := mqtt.NewClient(opts)

	var err error
	for i := 0; i < connectAttempts; i++ {
		token := client.Connect()
		if token.Wait() && token.Error() == nil {
			err = nil
			break
		}
		err = token.Error()
		logger.L().Warnf("MQTT connect failed (attempt %d/%d): %v", i+1, connectAttempts, err)
		if i < connectAttempts-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", broker)
	}

	m := newMQTT(client, topic, qos)
	m.close = func() { client.Disconnect(250) }
	return m, nil
}

func newMQTT(client publisher, topic string, qos byte) *MQTT {
	return &MQTT{client: client, topic: topic, qos: qos}
}

func (m *MQTT) Publish(r loop.Record) error {
	p := payload{
		Routine: string(r.Routine),
		Period:  r.Period,
		Angle:   r.Angle,
		Phase:   [3]float64{r.Phase.U, r.Phase.V, r.Phase.W},
		Alpha:   r.Stationary.Alpha,
		Beta:    r.Stationary.Beta,
		D:       r.Rotating.D,
		Q:       r.Rotating.Q,
	}
	if r.Routine == loop.SVPWM {
		p.Sector = uint8(r.Sector)
		p.Counter = [3]float64{r.Counter.U, r.Counter.V, r.Counter.W}
		p.Saturated = r.Saturated
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	token := m.client.Publish(m.topic, m.qos, false, data)
	m.mu.Unlock()

	// QoS 0 is fire and forget
	if m.qos == 0 {
		return nil
	}
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", m.topic)
	}
	return token.Error()
}

func (m *MQTT) Close() error {
	if m.close != nil {
		m.close()
	}
	return nil
}
