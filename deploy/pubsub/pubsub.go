// Package pubsub wires an External location's boundary to a real
// Google Cloud Pub/Sub topic/subscription, grounded on the teacher's
// components/pubsub Initium/Terminus pair.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// blocks for one Pub/Sub message, JSON-decodes it, and acks it.
func Source(v *viper.Viper) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	topic := v.GetString("topic")
	subscription := v.GetString("subscription")

	client, err := pubsub.NewClient(context.Background(), projectID)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("pubsub source: connect: %w", err)
	}
	sub, err := client.CreateSubscription(context.Background(), subscription,
		pubsub.SubscriptionConfig{Topic: client.Topic(topic)})
	if err != nil {
		return expr.Expr{}, fmt.Errorf("pubsub source: subscribe: %w", err)
	}

	out := make(chan map[string]interface{})
	go func() {
		_ = sub.Receive(context.Background(), func(ctx context.Context, m *pubsub.Message) {
			payload := map[string]interface{}{}
			if err := json.Unmarshal(m.Data, &payload); err == nil {
				out <- payload
			}
			m.Ack()
		})
	}()

	fn := func() (interface{}, bool) {
		payload, ok := <-out
		return payload, ok
	}

	return expr.NewClosure(fmt.Sprintf("pubsub_source:%s", subscription), expr.Span{}, fn), nil
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// JSON-encodes and publishes one message per call.
func Sink(v *viper.Viper) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	topic := v.GetString("topic")

	client, err := pubsub.NewClient(context.Background(), projectID)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("pubsub sink: connect: %w", err)
	}
	tpc := client.Topic(topic)

	fn := func(payload interface{}) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("pubsub sink: marshal: %w", err)
		}
		result := tpc.Publish(context.Background(), &pubsub.Message{Data: data})
		_, err = result.Get(context.Background())
		return err
	}

	return expr.NewClosure(fmt.Sprintf("pubsub_sink:%s", topic), expr.Span{}, fn), nil
}
