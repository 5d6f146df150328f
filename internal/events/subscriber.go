package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/ayusman/visionpanel/internal/logging"
)

// Subscribe connects to the event feed at url and dispatches events to h until
// ctx is done or the connection drops.
func Subscribe(ctx context.Context, url string, h Handler) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial event feed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("event feed closed: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			logging.Debugf("skipping malformed event: %v", err)
			continue
		}

		switch ev.Type {
		case TypeDetection:
			h.OnDetection()
		case TypeStats:
			h.OnStats(ev.FPS)
		}
	}
}
