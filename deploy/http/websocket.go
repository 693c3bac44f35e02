package http

import (
	"encoding/json"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// WebsocketSource starts a fiber server upgrading path to a websocket
// and returns an expr.Expr carrying a func() (interface{}, bool) that
// yields one decoded message per call. The teacher's loader/websocket.go
// left this connector as an unimplemented stub; this fills it in.
func WebsocketSource(v *viper.Viper) expr.Expr {
	port := v.GetString("port")
	path := v.GetString("path")

	ch := make(chan map[string]interface{})
	app := fiber.New()

	app.Use(path, func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get(path, fiberws.New(func(c *fiberws.Conn) {
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			payload := map[string]interface{}{}
			if json.Unmarshal(raw, &payload) == nil {
				ch <- payload
			}
		}
	}))

	go func() { _ = app.Listen(port) }()

	fn := func() (interface{}, bool) {
		payload, ok := <-ch
		return payload, ok
	}

	return expr.NewClosure(fmt.Sprintf("websocket_source:%s%s", port, path), expr.Span{}, fn)
}
