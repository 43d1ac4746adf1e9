package publish

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type fakeClient struct {
	topic   string
	qos     byte
	payload []byte
	token   mqtt.Token
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return c.token
}

func TestPublishEvaluation(t *testing.T) {
	client := &fakeClient{token: completedToken(nil)}
	pub := newMQTTPublisher(client, "solarcook/evaluations", 1, slog.Default())

	eff := 0.31
	err := pub.PublishEvaluation(context.Background(), efficiency.Record{
		ID:     "abc",
		Result: efficiency.Result{EffWithoutPCM: &eff},
	})
	require.NoError(t, err)
	require.Equal(t, "solarcook/evaluations", client.topic)
	require.Equal(t, byte(1), client.qos)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(client.payload, &decoded))
	require.Equal(t, "abc", decoded["id"])
}

func TestPublishEvaluationBrokerError(t *testing.T) {
	client := &fakeClient{token: completedToken(errors.New("not connected"))}
	pub := newMQTTPublisher(client, "t", 0, slog.Default())
	require.ErrorContains(t, pub.PublishEvaluation(context.Background(), efficiency.Record{}), "not connected")
}

func TestPublishEvaluationTimeout(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: make(chan struct{})}}
	pub := newMQTTPublisher(client, "t", 0, slog.Default())
	pub.timeout = 10 * time.Millisecond
	require.ErrorContains(t, pub.PublishEvaluation(context.Background(), efficiency.Record{}), "timed out")
}
