package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/frame"
)

const (
	displayW    = 128
	displayH    = 64
	lineSpacing = 13
)

// addrBus pins every transaction to one device address so the panel can sit
// at something other than the driver's default.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b *addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// StatusDisplay shows the latest frame and the stick centers on an SSD1306.
type StatusDisplay struct {
	log *zap.Logger
	cal *calibration.Context
	bus i2c.BusCloser
	dev *ssd1306.Dev

	mu     sync.Mutex
	latest frame.Frame
	have   bool
}

func NewStatusDisplay(addr uint16, cal *calibration.Context, log *zap.Logger) (*StatusDisplay, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(&addrBus{Bus: bus, addr: addr}, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Info("display initialized", zap.String("addr", fmt.Sprintf("0x%02X", addr)))

	return &StatusDisplay{log: log, cal: cal, bus: bus, dev: dev}, nil
}

// BootStarted shows the hands-off prompt for the boot window.
func (d *StatusDisplay) BootStarted(window time.Duration) {
	if err := d.dev.Draw(d.dev.Bounds(), renderSplash(window), image.Point{}); err != nil {
		d.log.Warn("splash failed", zap.Error(err))
	}
}

// Update records f for the next redraw. Safe to call from the sample loop.
func (d *StatusDisplay) Update(f frame.Frame) {
	d.mu.Lock()
	d.latest = f
	d.have = true
	d.mu.Unlock()
}

// Run redraws every interval until ctx is cancelled.
func (d *StatusDisplay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			f, have := d.latest, d.have
			d.mu.Unlock()

			img := renderStatus(f, have, d.cal.Snapshot())
			if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
				d.log.Debug("draw failed", zap.Error(err))
			}
		}
	}
}

func (d *StatusDisplay) Close() error {
	err := d.dev.Halt()
	if cerr := d.bus.Close(); err == nil {
		err = cerr
	}
	return err
}

func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayW, displayH))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func renderSplash(window time.Duration) *image1bit.VerticalLSB {
	img, drawer := newCanvas()
	drawer.Dot = fixed.P(20, 13)
	drawer.DrawString("Gamepad")
	drawer.Dot = fixed.P(5, 30)
	drawer.DrawString("Hands off sticks")
	drawer.Dot = fixed.P(5, 47)
	drawer.DrawString(fmt.Sprintf("Calibrating %.1fs", window.Seconds()))
	return img
}

// renderStatus draws four lines: left stick, right stick, buttons and the
// boot centers of the left stick.
func renderStatus(f frame.Frame, have bool, cal [axis.Count]axis.Calibration) *image1bit.VerticalLSB {
	img, drawer := newCanvas()

	if !have {
		drawer.Dot = fixed.P(0, 2*lineSpacing)
		drawer.DrawString("Waiting...")
		return img
	}

	lines := []string{
		fmt.Sprintf("L:%6d %6d", f.LX, f.LY),
		fmt.Sprintf("R:%6d %6d", f.RX, f.RY),
		fmt.Sprintf("K:%s", f.K),
		fmt.Sprintf("C:%d %d", cal[axis.LX].Center, cal[axis.LY].Center),
	}
	for i, s := range lines {
		drawer.Dot = fixed.P(0, (i+1)*lineSpacing)
		drawer.DrawString(s)
	}
	return img
}
