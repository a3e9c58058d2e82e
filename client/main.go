package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"

	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/network"
)

var CLI struct {
	Server  string `short:"s" default:"localhost:8080" help:"Server host:port"`
	Chain   string `short:"c" required:"" help:"Game chain to play on"`
	Player  string `short:"p" required:"" help:"Player id"`
	Name    string `short:"n" help:"Player name (defaults to the id)"`
	Group   string `short:"g" help:"Group id"`
	Version string `default:"1.0.0" help:"Client version reported on join"`
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	packet, err := network.EncodePacket(msgID, data)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	kctx := kong.Parse(&CLI, kong.Name("blackjack-client"), kong.UsageOnError())
	if CLI.Name == "" {
		CLI.Name = CLI.Player
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: CLI.Server, Path: "/ws", RawQuery: url.Values{"chain": {CLI.Chain}}.Encode()}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	kctx.FatalIfErrorf(err, "dial")
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			p, err := network.DecodePacket(raw)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(raw))
				continue
			}
			log.Printf("<- RECV (ID: %d): %s", p.MsgID, string(p.Data))
		}
	}()

	log.Println("Sending join request...")
	join := message.Join{PlayerID: CLI.Player, PlayerName: CLI.Name, ClientVersion: CLI.Version, GroupID: CLI.Group}
	if err := send(c, network.MsgTypeJoin, join); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Client started. Type 'hit', 'stand' or 'idle' and press Enter.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	heartbeat := time.NewTicker(10 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case <-heartbeat.C:
			if err := send(c, network.MsgTypeHeartbeat, nil); err != nil {
				log.Println("Write error:", err)
				return
			}
		case text := <-lines:
			var err error
			switch text {
			case "hit":
				err = send(c, network.MsgTypeAction, message.Action{PlayerID: CLI.Player, Action: message.ActionHit})
			case "stand":
				err = send(c, network.MsgTypeAction, message.Action{PlayerID: CLI.Player, Action: message.ActionStand})
			case "idle":
				err = send(c, network.MsgTypeIdleCheck, message.IdleActionCheck{PlayerID: CLI.Player})
			default:
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", text)
		}
	}
}
