package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/buttons"
	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/frame"
	"github.com/relabs-tech/gamepad/internal/transport"
)

func TestCalibrationEndpoint(t *testing.T) {
	cal := calibration.NewContext(axis.DefaultParams)
	cal.Reseed(axis.RX, 1000)

	ws := transport.NewWebSocket(func([]byte) {}, zap.NewNop())
	srv := httptest.NewServer(newWebMux(ws, cal, zap.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/calibration")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status []AxisStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.Len(t, status, axis.Count)

	assert.Equal(t, "lx", status[0].Axis)
	assert.Equal(t, int32(2048), status[0].Center)
	assert.Equal(t, "rx", status[2].Axis)
	assert.Equal(t, axis.Calibration{Center: 1000, Min: 700, Max: 1300}, status[2].Calibration)
}

func TestFormatFrame(t *testing.T) {
	f := frame.Frame{LX: -32767, LY: 0, RX: 12, RY: 32767, K: buttons.Mask(1<<buttons.Up | 1<<buttons.A)}
	assert.Equal(t, "[PAD] LX=-32767 LY=     0  RX=    12 RY= 32767  K=UP+A", FormatFrame(f))
}

type fakeMessage struct {
	mqtt.Message
	payload []byte
}

func (m fakeMessage) Payload() []byte { return m.payload }

func TestFrameHandler(t *testing.T) {
	var buf bytes.Buffer
	h := frameHandler(&buf, zap.NewNop())

	h(nil, fakeMessage{payload: []byte(`{"lx":1,"ly":2,"rx":3,"ry":4,"k":0}`)})
	assert.Equal(t, FormatFrame(frame.Frame{LX: 1, LY: 2, RX: 3, RY: 4})+"\n", buf.String())

	buf.Reset()
	h(nil, fakeMessage{payload: []byte(`{"lx":1}`)})
	assert.Empty(t, buf.String(), "malformed frames are skipped")
}

func TestConsoleTransport(t *testing.T) {
	var buf bytes.Buffer
	c := consoleTransport{w: &buf}
	require.NoError(t, c.Deliver([]byte(`{"lx":0}`)))
	assert.Equal(t, "{\"lx\":0}\n", buf.String())
}

func countLit(pix []byte) int {
	n := 0
	for _, b := range pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestRenderStatus(t *testing.T) {
	snap := calibration.NewContext(axis.DefaultParams).Snapshot()

	waiting := renderStatus(frame.Frame{}, false, snap)
	live := renderStatus(frame.Frame{LX: 100, K: 1}, true, snap)

	assert.Equal(t, displayW, waiting.Bounds().Dx())
	assert.Equal(t, displayH, waiting.Bounds().Dy())
	assert.Greater(t, countLit(waiting.Pix), 0)
	assert.Greater(t, countLit(live.Pix), countLit(waiting.Pix), "four lines light more pixels than one")
	assert.Greater(t, countLit(renderSplash(800*time.Millisecond).Pix), 0)
}
