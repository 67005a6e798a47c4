// Command floodcheck opens many sockets against a running server from one
// address and reports how many the flood guard accepted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/messages"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type outcome int

const (
	accepted outcome = iota
	rejected
	failed
)

func main() {
	url := flag.String("url", "ws://localhost:8080/", "Server websocket URL")
	count := flag.Int("n", 12, "Number of sockets to open")
	timeout := flag.Duration("timeout", 3*time.Second, "Time to wait for each answer")
	expect := flag.Int("expect", -1, "Exit non-zero unless exactly this many sockets are accepted")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stdout, parsedLogLevel))

	ctx := context.Background()
	var open []*websocket.Conn
	defer func() {
		for _, c := range open {
			c.Close(websocket.StatusNormalClosure, "")
		}
	}()

	totals := map[outcome]int{}
	for i := 0; i < *count; i++ {
		conn, result, err := probe(ctx, *url, *timeout)
		totals[result]++
		switch result {
		case accepted:
			open = append(open, conn)
			log.Debug("Socket %d accepted", i+1)
		case rejected:
			log.Info("Socket %d rejected: %v", i+1, err)
		default:
			log.Error("Socket %d failed: %v", i+1, err)
		}
	}

	log.WithFields(log.Fields{
		"accepted": totals[accepted],
		"rejected": totals[rejected],
		"failed":   totals[failed],
	}).Info("Flood check against %s done", *url)

	if *expect >= 0 && totals[accepted] != *expect {
		log.Error("Expected %d accepted sockets, got %d", *expect, totals[accepted])
		os.Exit(1)
	}
}

// probe dials url and pings. The socket stays open when the server answers
// with a pong.
func probe(ctx context.Context, url string, timeout time.Duration) (*websocket.Conn, outcome, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, failed, err
	}
	if err := wsjson.Write(dialCtx, conn, &messages.Ping{Envelope: messages.Envelope{Type: messages.TypePing}}); err != nil {
		conn.Close(websocket.StatusInternalError, "")
		return nil, failed, err
	}

	for {
		var frame struct {
			Type  messages.Type      `json:"type"`
			Error messages.ErrorCode `json:"error"`
		}
		err := wsjson.Read(dialCtx, conn, &frame)
		if status := websocket.CloseStatus(err); status == websocket.StatusPolicyViolation {
			return nil, rejected, err
		}
		if err != nil {
			conn.Close(websocket.StatusInternalError, "")
			return nil, failed, err
		}

		switch frame.Type {
		case messages.TypePong:
			return conn, accepted, nil
		case messages.TypeError:
			if frame.Error == messages.ErrorDDoSDetected {
				// the close frame follows; wait for it so the socket is released
				_, _, err := conn.Read(dialCtx)
				if err == nil {
					err = errors.New(string(frame.Error))
				}
				return nil, rejected, err
			}
		}
	}
}
