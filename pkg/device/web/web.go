// Package web emulates an e-ink panel in a browser. The page at "/" draws
// the frame on a canvas and reports clicks over the websocket at "/ws".
//
// Frame updates are binary messages: a big endian uint32 x and y followed
// by a PNG of the changed region. Control messages are JSON text.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/internal/frame"
	"github.com/grindlemire/go-eink/pkg/touch"
)

//go:embed index.html
var indexHTML []byte

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
	headerSize = 8
)

// Message is a JSON control message. Browsers send clicks; the device
// sends refreshes.
type Message struct {
	Type     string `json:"type"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Inverted bool   `json:"inverted,omitempty"`
	Flashing bool   `json:"flashing,omitempty"`
}

// Control message types.
const (
	TypeClick   = "click"
	TypeRefresh = "refresh"
	TypeHello   = "hello"
)

type outgoing struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan outgoing
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Device serves the frame to any number of browsers.
type Device struct {
	frame    *frame.Frame
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	touches chan touch.Point
	log     *logrus.Entry
}

// New creates a device with a width x height frame.
func New(width, height int) *Device {
	return &Device{
		frame: frame.New(width, height),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		touches: make(chan touch.Point, 16),
		log:     debug.With("web"),
	}
}

// Size returns the frame size in pixels.
func (d *Device) Size() (width, height int) {
	return d.frame.Size()
}

// Blit copies img onto the frame and sends the changed region.
func (d *Device) Blit(img *image.Gray, x, y int, inverted bool) error {
	r := d.frame.Blit(img, x, y, inverted)
	if r.Empty() {
		return nil
	}
	return d.sendRegion(r)
}

// Refresh applies the global inversion, resends the frame and tells
// browsers to refresh.
func (d *Device) Refresh(inverted, flashing bool) error {
	d.frame.SetInverted(inverted)
	if err := d.sendRegion(d.frame.Bounds()); err != nil {
		return err
	}
	return d.sendJSON(Message{Type: TypeRefresh, Inverted: inverted, Flashing: flashing})
}

// Clear blanks the frame.
func (d *Device) Clear() error {
	d.frame.Clear()
	return d.sendRegion(d.frame.Bounds())
}

// Touches returns the clicks made in any browser.
func (d *Device) Touches() touch.Chan {
	return d.touches
}

// Handler serves the page and the websocket.
func (d *Device) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", d.serveIndex)
	mux.HandleFunc("/ws", d.serveWS)
	return mux
}

// Serve listens on addr until ctx is done.
func (d *Device) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: d.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	d.log.Infof("serving on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// Close disconnects every browser and closes the touch channel.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	for c := range d.clients {
		c.close()
		delete(d.clients, c)
	}
	close(d.touches)
	return nil
}

func (d *Device) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (d *Device) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan outgoing, sendBuffer)}
	go d.writeLoop(c)

	width, height := d.frame.Size()
	hello, _ := json.Marshal(Message{Type: TypeHello, Width: width, Height: height, Inverted: d.frame.Inverted()})
	full, err := encodeRegion(d.frame.Full())
	if err != nil {
		d.log.WithError(err).Error("encode frame")
		c.close()
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		c.close()
		return
	}
	d.clients[c] = struct{}{}
	c.send <- outgoing{kind: websocket.TextMessage, data: hello}
	c.send <- outgoing{kind: websocket.BinaryMessage, data: full}
	d.mu.Unlock()

	d.log.WithField("remote", r.RemoteAddr).Debug("browser connected")
	d.readLoop(c)
}

func (d *Device) readLoop(c *client) {
	defer d.drop(c)
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.log.WithError(err).Debug("websocket read")
			}
			return
		}
		if msg.Type != TypeClick {
			d.log.WithField("type", msg.Type).Debug("ignoring message")
			continue
		}
		if !image.Pt(msg.X, msg.Y).In(d.frame.Bounds()) {
			continue
		}
		d.touch(touch.Point{X: msg.X, Y: msg.Y})
	}
}

func (d *Device) touch(p touch.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.touches <- p:
	default:
		d.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y}).Warn("touch channel full, dropping click")
	}
}

func (d *Device) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
			d.log.WithError(err).Debug("websocket write")
			d.drop(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (d *Device) drop(c *client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.clients[c]; ok {
		delete(d.clients, c)
		c.close()
	}
}

func (d *Device) sendRegion(r image.Rectangle) error {
	data, err := encodeRegion(d.frame.Snapshot(r))
	if err != nil {
		return err
	}
	d.broadcast(outgoing{kind: websocket.BinaryMessage, data: data})
	return nil
}

func (d *Device) sendJSON(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	d.broadcast(outgoing{kind: websocket.TextMessage, data: data})
	return nil
}

// broadcast queues msg for every client. Clients too slow to keep up are
// disconnected.
func (d *Device) broadcast(msg outgoing) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for c := range d.clients {
		select {
		case c.send <- msg:
		default:
			d.log.Warn("browser too slow, disconnecting")
			delete(d.clients, c)
			c.close()
		}
	}
}

// encodeRegion frames img as an x, y header and a PNG body. The header
// carries img's origin.
func encodeRegion(img *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(img.Rect.Min.X))
	binary.BigEndian.PutUint32(header[4:8], uint32(img.Rect.Min.Y))
	buf.Write(header[:])
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRegion parses a binary frame update.
func DecodeRegion(data []byte) (image.Point, image.Image, error) {
	if len(data) < headerSize {
		return image.Point{}, nil, errors.New("short frame update")
	}
	at := image.Pt(int(binary.BigEndian.Uint32(data[0:4])), int(binary.BigEndian.Uint32(data[4:8])))
	img, err := png.Decode(bytes.NewReader(data[headerSize:]))
	if err != nil {
		return image.Point{}, nil, fmt.Errorf("decode region: %w", err)
	}
	return at, img, nil
}
