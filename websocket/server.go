package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/websocket"
)

// Detection is a single pointer sample sent by a browser client. The
// coordinates are normalized to [0,1] of the sender viewport, so the
// consumer can scale them onto its own domain.
type Detection struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// points is a channel used for sending the pointer samples through
var points = make(chan Detection, 1)

// Points retrieve the channel the pointer samples are delivered on.
// Only the most recent sample is kept when the consumer falls behind.
func Points() <-chan Detection {
	return points
}

// ListenAndServe initializes the webserver and websocket connection
func ListenAndServe(p *HttpParams) error {
	var err error
	p.Root, err = filepath.Abs(p.Root)
	if err != nil {
		return fmt.Errorf("resolving the web root: %w", err)
	}

	log.Printf("serving %s as %s on %s", p.Root, p.Prefix, p.Address)
	http.Handle(p.Prefix, http.StripPrefix(p.Prefix, http.FileServer(http.Dir(p.Root))))
	http.HandleFunc("/ws", wsHandler)

	mux := http.DefaultServeMux.ServeHTTP
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux(w, r)
	})
	server := http.Server{
		Addr:    p.Address,
		Handler: handler,
	}
	return server.ListenAndServe()
}

// readSocket listen for new messages being sent to the websocket
func readSocket(conn *websocket.Conn) {
	defer func() {
		conn.Close()
	}()

	for {
		messageType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}
		det, err := parseDetection(msg)
		if err != nil {
			log.Printf("dropping sample: %v", err)
			continue
		}
		publish(det)

		// Echo the sample back so the client can pace itself.
		if err := conn.WriteMessage(messageType, msg); err != nil {
			log.Println(err)
			return
		}
	}
}

// wsHandler defines the websocket connection endpoint
func wsHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade the http connection to a WebSocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}
	go readSocket(conn)
}

// parseDetection decodes a pointer sample and clamps it onto the unit square.
func parseDetection(msg []byte) (Detection, error) {
	var det Detection
	if err := json.Unmarshal(msg, &det); err != nil {
		return det, fmt.Errorf("invalid pointer sample: %w", err)
	}
	det.X = clamp01(det.X)
	det.Y = clamp01(det.Y)
	return det, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// publish replaces the pending sample with the most recent one.
func publish(det Detection) {
	select {
	case <-points:
	default:
	}
	select {
	case points <- det:
	default:
	}
}
