package app

import (
	"context"
	"fmt"
	"io"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/config"
	"github.com/relabs-tech/gamepad/internal/frame"
)

// CalibrateCommand is the payload the console sends to trigger recalibration.
var CalibrateCommand = []byte(`{"cmd":"cal"}`)

// FormatFrame renders one frame as a console line.
func FormatFrame(f frame.Frame) string {
	return fmt.Sprintf("[PAD] LX=%6d LY=%6d  RX=%6d RY=%6d  K=%s", f.LX, f.LY, f.RX, f.RY, f.K)
}

// RunConsoleMQTT prints every frame published by the producer until ctx is
// cancelled. With requestCal set it first asks the producer to recalibrate.
func RunConsoleMQTT(ctx context.Context, requestCal bool, log *zap.Logger) error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTTBroker))

	token := client.Subscribe(cfg.TopicFrames, 0, frameHandler(os.Stdout, log))
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Info("subscribed", zap.String("topic", cfg.TopicFrames))

	if requestCal {
		token := client.Publish(cfg.TopicCommands, 1, false, CalibrateCommand)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Info("recalibration requested", zap.String("topic", cfg.TopicCommands))
	}

	<-ctx.Done()
	log.Info("console shutting down")
	return nil
}

func frameHandler(w io.Writer, log *zap.Logger) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		f, err := frame.Decode(msg.Payload())
		if err != nil {
			log.Warn("bad frame", zap.Error(err))
			return
		}
		fmt.Fprintln(w, FormatFrame(f))
	}
}
