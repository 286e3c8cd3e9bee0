package handlers

import (
	"encoding/json"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/cache"
	"github.com/gin-gonic/gin"
)

// keepaliveInterval evita que proxies encerrem conexões SSE ociosas
const keepaliveInterval = 25 * time.Second

// streamEvents assina o canal no Redis e repassa os eventos como SSE
// até o cliente desconectar. A assinatura é desfeita junto com a conexão.
func streamEvents(c *gin.Context, cacheClient *cache.Client, channel string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	events := cacheClient.StreamPatientEvents(ctx, channel)

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			c.Writer.WriteString("data: ")
			c.Writer.Write(payload)
			c.Writer.WriteString("\n\n")
			c.Writer.Flush()
		}
	}
}
