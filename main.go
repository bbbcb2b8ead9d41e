package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/frostcore/anim"
	"github.com/matt-g-everett/frostcore/api"
	"github.com/matt-g-everett/frostcore/effects"
	"github.com/matt-g-everett/frostcore/queue"
	"github.com/matt-g-everett/frostcore/strip"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	jsonLogs   bool
	noMqtt     bool
)

var rootCmd = &cobra.Command{
	Use:   "frostcore",
	Short: "Animate LED strip segments and stream frames to an ledrx device",
	Long: `frostcore renders named segments of an LED strip, animates them with
eased fades, slides, squeezes, drops and colour blends, and streams every
frame over MQTT.

Examples:
  frostcore --config config.yaml
  frostcore --config config.yaml --no-mqtt --json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(jsonLogs)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, configPath, !noMqtt, logger)
		if err != nil {
			logger.Error("start-up failed", zap.Error(err))
			return err
		}

		return a.run(ctx)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.yaml", "YAML config file")
	rootCmd.Flags().BoolVar(&jsonLogs, "json", false, "log JSON instead of console output")
	rootCmd.Flags().BoolVar(&noMqtt, "no-mqtt", false, "render frames without publishing them")
}

func newLogger(jsonOutput bool) (*zap.Logger, error) {
	if jsonOutput {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

type app struct {
	Config    strip.Config
	Client    mqtt.Client
	Strip     *strip.Strip
	Scheduler *anim.TickerScheduler
	Animator  *effects.Animator
	Streamer  *strip.Streamer
	Api       *api.Api
	logger    *zap.Logger
}

func newApp(ctx context.Context, configPath string, useMqtt bool, logger *zap.Logger) (*app, error) {
	a := new(app)
	a.logger = logger

	var err error
	a.Config, err = strip.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		zap.String("path", configPath),
		zap.Int("pixels", a.Config.Strip.Pixels),
		zap.Int("segments", len(a.Config.Strip.Segments)))

	a.Strip, err = a.Config.Build()
	if err != nil {
		return nil, err
	}

	a.Scheduler = anim.NewTickerScheduler(a.Config.FrameInterval())
	driver := anim.NewDriver(a.Scheduler, a.Strip.Attached, anim.WithLogger(logger.Named("anim")))
	q := queue.New[*strip.Segment](queue.WithContext(ctx), queue.WithLogger(logger.Named("queue")))
	a.Animator = effects.NewAnimator(driver, q)

	var publisher strip.Publisher = discard{logger.Named("frames")}
	if useMqtt {
		a.Client, err = strip.Connect(a.Config, func(mqtt.Client) { logger.Info("Connected") })
		if err != nil {
			return nil, err
		}
		publisher = strip.NewMQTTPublisher(a.Client)
	}
	a.Streamer = strip.NewStreamer(a.Strip, publisher, a.Config.Mqtt.Topics.Stream,
		a.Config.FrameInterval(), logger.Named("stream"))

	a.Api = api.NewApi(a.Config.Listen, api.StatusFunc(func() api.Status {
		return api.Status{
			Running:   driver.Running(),
			Animating: driver.Targets(),
			Queued:    q.Len(),
		}
	}), logger.Named("api"))

	return a, nil
}

func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Scheduler.Run(gctx) })
	g.Go(func() error { return a.Streamer.Run(gctx) })
	g.Go(func() error { return a.Api.Serve(gctx) })
	g.Go(func() error {
		return newShow(a.Animator, a.Strip, a.Config.Animation, a.Config.ShowInterval, a.logger.Named("show")).Run(gctx)
	})

	err := g.Wait()
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
	if err != nil && ctx.Err() != nil {
		a.logger.Info("stopped")
		return nil
	}
	return err
}

// discard stands in for MQTT when streaming is disabled.
type discard struct {
	logger *zap.Logger
}

func (d discard) Publish(topic string, payload []byte) error {
	if ce := d.logger.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(zap.String("topic", topic), zap.Int("bytes", len(payload)))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
