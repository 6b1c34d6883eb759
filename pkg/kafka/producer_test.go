package kafka

import (
	"context"
	"net"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers: []string{"localhost:9092", "localhost:9093"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.NotNil(t, p.writers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport)
}

func TestNewProducerWithTLSAndSASL(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain", mechanism: "PLAIN"},
		{name: "default is plain", mechanism: ""},
		{name: "scram-sha-256", mechanism: "SCRAM-SHA-256"},
		{name: "scram-sha-512", mechanism: "SCRAM-SHA-512"},
		{name: "unknown mechanism", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers:       []string{"kafka:9093"},
				TLS:           true,
				SASLEnabled:   true,
				SASLMechanism: tt.mechanism,
				SASLUsername:  "score-service",
				SASLPassword:  "hunter2",
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p.transport)
			assert.NotNil(t, p.transport.TLS)
			assert.NotNil(t, p.transport.SASL)
			assert.Same(t, p.transport.TLS, p.dialer.TLS)
		})
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("score-events")
	w2 := p.getOrCreateWriter("score-events")
	w3 := p.getOrCreateWriter("score-events-dlq")

	assert.Same(t, w1, w2, "same topic should reuse the writer")
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "score-events", w1.Topic)
	assert.IsType(t, &kafkago.Hash{}, w1.Balancer)
	assert.Len(t, p.writers, 2)
}

func TestPublishNoMessagesIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "score-events"))
	assert.Empty(t, p.writers, "no writer should be created for an empty publish")
}

func TestProducerClose(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPing(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	p, err := NewProducer(Config{Brokers: []string{"127.0.0.1:1", ln.Addr().String()}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Ping(ctx))
}

func TestPingUnreachable(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"127.0.0.1:1"}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = p.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no broker reachable")
}

func TestPingWithoutBrokers(t *testing.T) {
	p, err := NewProducer(Config{})
	require.NoError(t, err)
	assert.Error(t, p.Ping(context.Background()))
}
