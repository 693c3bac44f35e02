// Package kafka wires an External location's ExternalInput/SendExternal
// boundary (spec §3.3/§3.4, §4.7) to a real Kafka topic via
// segmentio/kafka-go, the same reader/writer pair the teacher's
// components/kafka wraps for its Initium/Terminus hooks.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kaf "github.com/segmentio/kafka-go"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// reads one JSON-decoded message per call, suitable for
// inprocess.Backend.RegisterExternalSource. Config keys mirror the
// teacher's: "topic", "partition", "brokers".
func Source(v *viper.Viper) expr.Expr {
	topic := v.GetString("topic")
	partition := v.GetInt("partition")
	brokers := v.GetStringSlice("brokers")
	deadline := v.GetDuration("deadline")
	retries := v.GetInt("retries")

	r := kaf.NewReader(kaf.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		Partition:   partition,
		MaxWait:     deadline,
		MaxAttempts: retries,
	})

	fn := func() (interface{}, bool) {
		message, err := r.ReadMessage(context.Background())
		if err != nil {
			return nil, false
		}
		packet := map[string]interface{}{}
		if err := json.Unmarshal(message.Value, &packet); err != nil {
			return nil, false
		}
		return packet, true
	}

	return expr.NewClosure(fmt.Sprintf("kafka_source:%s", topic), expr.Span{}, fn)
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// JSON-encodes and writes one message per call, suitable for
// inprocess.Backend.RegisterExternalSink.
func Sink(v *viper.Viper) expr.Expr {
	topic := v.GetString("topic")
	brokers := v.GetStringSlice("brokers")
	retries := v.GetInt("retries")

	w := kaf.NewWriter(kaf.WriterConfig{
		Brokers:     brokers,
		Topic:       topic,
		Balancer:    &kaf.LeastBytes{},
		MaxAttempts: retries,
	})

	fn := func(payload interface{}) error {
		bytez, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("kafka sink: marshal: %w", err)
		}
		return w.WriteMessages(context.Background(), kaf.Message{Value: bytez})
	}

	return expr.NewClosure(fmt.Sprintf("kafka_sink:%s", topic), expr.Span{}, fn)
}
