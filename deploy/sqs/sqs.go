// Package sqs wires an External location's boundary to a real SQS
// queue via aws-sdk-go, grounded on the teacher's components/sqs
// Initium/Terminus pair.
package sqs

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awssqs "github.com/aws/aws-sdk-go/service/sqs"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// pulls and JSON-decodes one batch of messages per call.
func Source(v *viper.Viper) expr.Expr {
	sess := session.Must(session.NewSession())
	region := v.GetString("region")
	url := v.GetString("queue_url")
	visibilityTimeout := v.GetInt64("visibility_timeout")
	batchSize := v.GetInt64("batch_size")
	waitTimeSeconds := v.GetInt64("wait_time_seconds")

	svc := awssqs.New(sess, aws.NewConfig().WithRegion(region))

	fn := func() (interface{}, bool) {
		id := uuid.New().String()
		output, err := svc.ReceiveMessage(&awssqs.ReceiveMessageInput{
			MaxNumberOfMessages:     &batchSize,
			QueueUrl:                &url,
			VisibilityTimeout:       &visibilityTimeout,
			WaitTimeSeconds:         &waitTimeSeconds,
			ReceiveRequestAttemptId: &id,
		})
		if err != nil || len(output.Messages) == 0 {
			return nil, false
		}
		batch := make([]map[string]interface{}, 0, len(output.Messages))
		for _, message := range output.Messages {
			m := map[string]interface{}{}
			if err := json.Unmarshal([]byte(*message.Body), &m); err == nil {
				batch = append(batch, m)
			}
		}
		return batch, true
	}

	return expr.NewClosure(fmt.Sprintf("sqs_source:%s", url), expr.Span{}, fn)
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// JSON-encodes and sends one message per call.
func Sink(v *viper.Viper) expr.Expr {
	sess := session.Must(session.NewSession())
	region := v.GetString("region")
	url := v.GetString("queue_url")
	delay := v.GetInt64("delay")

	svc := awssqs.New(sess, aws.NewConfig().WithRegion(region))

	fn := func(payload interface{}) error {
		id := uuid.New().String()
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("sqs sink: marshal: %w", err)
		}
		bodyString := string(body)
		_, err = svc.SendMessage(&awssqs.SendMessageInput{
			QueueUrl:     &url,
			DelaySeconds: &delay,
			MessageBody:  &bodyString,
			MessageDeduplicationId: &id,
		})
		return err
	}

	return expr.NewClosure(fmt.Sprintf("sqs_sink:%s", url), expr.Span{}, fn)
}
