// Package http wires an External location's boundary to a fiber-hosted
// HTTP endpoint (source side) and an outbound HTTP POST (sink side),
// grounded on the teacher's components/http Initium/Terminus pair and
// Pipe's fiber.App wiring in pipe.go.
package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source starts a fiber server accepting POSTs at path and returns an
// expr.Expr carrying a func() (interface{}, bool) that yields one
// decoded body per call.
func Source(v *viper.Viper) expr.Expr {
	port := v.GetString("port")
	path := v.GetString("path")
	bodyLimit := v.GetInt("body_limit")

	ch := make(chan map[string]interface{})
	app := fiber.New(fiber.Config{DisableKeepalive: true, BodyLimit: bodyLimit})

	app.Post(path, func(c *fiber.Ctx) error {
		payload := map[string]interface{}{}
		if err := c.BodyParser(&payload); err != nil {
			return c.SendStatus(http.StatusBadRequest)
		}
		ch <- payload
		return c.SendStatus(http.StatusOK)
	})

	go func() { _ = app.Listen(port) }()

	fn := func() (interface{}, bool) {
		payload, ok := <-ch
		return payload, ok
	}

	return expr.NewClosure(fmt.Sprintf("http_source:%s%s", port, path), expr.Span{}, fn)
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// JSON-encodes and POSTs one payload per call to host.
func Sink(v *viper.Viper) expr.Expr {
	host := v.GetString("host")
	timeout := v.GetDuration("timeout")

	client := http.Client{Timeout: timeout}

	fn := func(payload interface{}) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("http sink: marshal: %w", err)
		}
		resp, err := client.Post(host, "application/json", bytes.NewReader(data))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode > 299 {
			return fmt.Errorf("http sink: %s responded %d", host, resp.StatusCode)
		}
		return nil
	}

	return expr.NewClosure(fmt.Sprintf("http_sink:%s", host), expr.Span{}, fn)
}
