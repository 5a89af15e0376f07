package web

import (
	"encoding/json"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/go-eink/pkg/touch"
)

func solid(w, h int, y uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	return img
}

func connect(t *testing.T, d *Device) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(d.Handler())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func read(t *testing.T, ws *websocket.Conn) (int, []byte) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := ws.ReadMessage()
	require.NoError(t, err)
	return kind, data
}

func readRegion(t *testing.T, ws *websocket.Conn) (image.Point, image.Image) {
	t.Helper()
	kind, data := read(t, ws)
	require.Equal(t, websocket.BinaryMessage, kind)
	at, img, err := DecodeRegion(data)
	require.NoError(t, err)
	return at, img
}

func readJSON(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	kind, data := read(t, ws)
	require.Equal(t, websocket.TextMessage, kind)
	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func grayAt(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

func TestConnectSendsFullFrame(t *testing.T) {
	d := New(60, 80)
	require.NoError(t, d.Blit(solid(10, 10, 0), 0, 0, false))
	ws := connect(t, d)

	hello := readJSON(t, ws)
	assert.Equal(t, Message{Type: TypeHello, Width: 60, Height: 80}, hello)

	at, img := readRegion(t, ws)
	assert.Equal(t, image.Pt(0, 0), at)
	assert.Equal(t, image.Rect(0, 0, 60, 80), img.Bounds())
	assert.Equal(t, uint8(0), grayAt(img, 5, 5))
	assert.Equal(t, uint8(255), grayAt(img, 20, 20))
}

func TestBlitSendsRegion(t *testing.T) {
	d := New(60, 80)
	ws := connect(t, d)
	readJSON(t, ws)
	readRegion(t, ws)

	require.NoError(t, d.Blit(solid(4, 6, 30), 10, 20, true))
	at, img := readRegion(t, ws)
	assert.Equal(t, image.Pt(10, 20), at)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
	assert.Equal(t, uint8(225), grayAt(img, 1, 1))
}

func TestRefresh(t *testing.T) {
	d := New(20, 20)
	ws := connect(t, d)
	readJSON(t, ws)
	readRegion(t, ws)

	require.NoError(t, d.Refresh(true, true))
	_, img := readRegion(t, ws)
	assert.Equal(t, uint8(0), grayAt(img, 3, 3))
	assert.Equal(t, Message{Type: TypeRefresh, Inverted: true, Flashing: true}, readJSON(t, ws))
}

func TestClicksBecomeTouches(t *testing.T) {
	d := New(60, 80)
	ws := connect(t, d)
	readJSON(t, ws)
	readRegion(t, ws)

	require.NoError(t, ws.WriteJSON(Message{Type: "scroll", X: 1, Y: 1}))
	require.NoError(t, ws.WriteJSON(Message{Type: TypeClick, X: 100, Y: 1}))
	require.NoError(t, ws.WriteJSON(Message{Type: TypeClick, X: 12, Y: 34}))

	select {
	case p := <-d.Touches():
		assert.Equal(t, touch.Point{X: 12, Y: 34}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("no touch delivered")
	}
}

func TestCloseEndsTouches(t *testing.T) {
	d := New(10, 10)
	ws := connect(t, d)
	readJSON(t, ws)
	readRegion(t, ws)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, err := d.Touches().Next()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestIndex(t *testing.T) {
	d := New(10, 10)
	server := httptest.NewServer(d.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/ws")

	resp, err = http.Get(server.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDecodeRegionShort(t *testing.T) {
	_, _, err := DecodeRegion([]byte{1, 2, 3})
	require.Error(t, err)
}
