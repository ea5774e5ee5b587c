//go:build js && wasm
// +build js,wasm

package canvas

import (
	"encoding/json"
	"syscall/js"
)

// Socket is a thin wrapper over the browser WebSocket object. A sample
// stays in flight until the server echoes it back, newer samples are
// dropped in the meantime so the link never backs up.
type Socket struct {
	conn    js.Value
	open    bool
	pending bool
	events  []js.Func
}

// NewSocket dials ws://<host>/ws on the page own host. When the page is
// served from disk there is nothing to dial and the socket stays closed.
func NewSocket(window js.Value) (s *Socket) {
	s = &Socket{conn: js.Null()}
	defer func() {
		if recover() != nil {
			s.conn = js.Null()
		}
	}()

	host := window.Get("location").Get("host").String()
	s.conn = window.Get("WebSocket").New("ws://" + host + "/ws")

	onOpen := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.open = true
		return nil
	})
	onClose := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.open = false
		return nil
	})
	onError := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.open = false
		return nil
	})
	onMessage := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.pending = false
		return nil
	})
	s.conn.Call("addEventListener", "open", onOpen)
	s.conn.Call("addEventListener", "close", onClose)
	s.conn.Call("addEventListener", "error", onError)
	s.conn.Call("addEventListener", "message", onMessage)
	s.events = append(s.events, onOpen, onClose, onError, onMessage)

	return s
}

// Send forwards one pointer sample when the link is up and idle.
func (s *Socket) Send(det *detection) {
	if !s.open || s.pending {
		return
	}
	msg, err := json.Marshal(det)
	if err != nil {
		return
	}
	s.pending = true
	s.conn.Call("send", string(msg))
}
