// Package redis wires an External location's ExternalInput/SendExternal
// boundary (spec §3.3/§3.4, §4.7) to a Redis pub/sub channel via
// gomodule/redigo, the library the teacher's subscriptions/redis wraps for
// its Subscription.Read loop.
package redis

import (
	"encoding/json"
	"fmt"

	ps "github.com/gomodule/redigo/redis"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// blocks on one pub/sub message per call, JSON-decoding the payload.
// Config keys: "addr", "channel".
func Source(v *viper.Viper) expr.Expr {
	addr := v.GetString("addr")
	channel := v.GetString("channel")

	pool := &ps.Pool{
		Dial: func() (ps.Conn, error) { return ps.Dial("tcp", addr) },
	}
	sub := &ps.PubSubConn{Conn: pool.Get()}
	_ = sub.Subscribe(channel)

	fn := func() (interface{}, bool) {
		switch reply := sub.Receive().(type) {
		case ps.Message:
			packet := map[string]interface{}{}
			if err := json.Unmarshal(reply.Data, &packet); err != nil {
				return nil, false
			}
			return packet, true
		default:
			return nil, false
		}
	}

	return expr.NewClosure(fmt.Sprintf("redis_source:%s", channel), expr.Span{}, fn)
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// JSON-encodes and PUBLISHes one message per call. Config keys:
// "addr", "channel".
func Sink(v *viper.Viper) expr.Expr {
	addr := v.GetString("addr")
	channel := v.GetString("channel")

	pool := &ps.Pool{
		Dial: func() (ps.Conn, error) { return ps.Dial("tcp", addr) },
	}

	fn := func(payload interface{}) error {
		bytez, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("redis sink: marshal: %w", err)
		}
		conn := pool.Get()
		defer conn.Close()
		_, err = conn.Do("PUBLISH", channel, bytez)
		return err
	}

	return expr.NewClosure(fmt.Sprintf("redis_sink:%s", channel), expr.Span{}, fn)
}
