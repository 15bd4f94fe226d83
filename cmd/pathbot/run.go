package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/annel0/voxel-pathing/internal/api"
	"github.com/annel0/voxel-pathing/internal/eventbus"
	"github.com/annel0/voxel-pathing/internal/logging"
	"github.com/annel0/voxel-pathing/internal/observability"
	"github.com/annel0/voxel-pathing/internal/pathing/coordinator"
	"github.com/annel0/voxel-pathing/internal/pathing/path"
	"github.com/annel0/voxel-pathing/internal/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// TickRate - тиков симуляции в секунду
const TickRate = 20

var errFinished = errors.New("навигация завершена")

var (
	runScene      sceneFlags
	runGoal       string
	runNoAPI      bool
	runNATS       string
	runExitAtGoal bool
	runSpeed      float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Симуляция агента с координатором и отладочным API",
	Long: `Генерирует мир, ставит симулированного агента на поверхность и крутит
координатор навигации с частотой 20 тиков в секунду. Цель задаётся флагом
--goal или через POST /api/goal. События навигации идут в шину: в памяти
или в NATS JetStream, если задан URL.`,
	Example: `  pathbot run --goal near:60,70,-20,2 --exit-at-goal
  pathbot run --nats nats://127.0.0.1:4222`,
	RunE: runRun,
}

func init() {
	addSceneFlags(runCmd, &runScene)
	runCmd.Flags().StringVarP(&runGoal, "goal", "g", "", "начальная цель (формат как у plan)")
	runCmd.Flags().BoolVar(&runNoAPI, "no-api", false, "не запускать HTTP API")
	runCmd.Flags().StringVar(&runNATS, "nats", "", "URL NATS JetStream для событий (перекрывает конфиг)")
	runCmd.Flags().BoolVar(&runExitAtGoal, "exit-at-goal", false, "завершиться при достижении цели или неудаче")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 1, "множитель скорости симуляции")
}

func openBus() (eventbus.EventBus, error) {
	url := cfg.EventBus.URL
	if runNATS != "" {
		url = runNATS
	}
	if url == "" {
		return eventbus.NewMemoryBus(1024), nil
	}
	retention := time.Duration(cfg.EventBus.Retention) * time.Hour
	bus, err := eventbus.NewJetStreamBus(url, cfg.EventBus.Stream, retention)
	if err != nil {
		return nil, err
	}
	logging.Info("📨 События навигации публикуются в JetStream %s", url)
	return bus, nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	m, start, err := buildScene(runScene)
	if err != nil {
		return err
	}
	logging.Info("🗺️ Мир: сид %d, чанков %d, агент в %v", runScene.seed, m.ChunkCount(), start)

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("остановка телеметрии: %v", err)
		}
	}()

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	eventbus.Init(bus)
	defer eventbus.Init(nil)

	listener, err := eventbus.StartLoggingListenerWith(bus, logging.GetPathingLogger())
	if err != nil {
		return err
	}
	defer listener.Unsubscribe()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := eventbus.NewMetricsExporter(bus, registry)
	if err != nil {
		return err
	}
	defer exporter.Close()

	hooks, err := api.NewOutboundWebhookManager(bus, logging.GetAPILogger())
	if err != nil {
		return err
	}
	defer hooks.Close()

	hotbar := defaultHotbar()
	agent := sim.NewAgent(m, hotbar, start)
	coord := coordinator.New(path.Env{
		World:     m,
		Agent:     agent,
		Actuator:  agent,
		Inventory: hotbar,
		Settings:  cfg.Pathing,
	}, coordinator.WithEventSink(eventbus.PathSink{Source: "pathbot"}))
	defer coord.Close()

	if runGoal != "" {
		goal, err := parseGoal(runGoal)
		if err != nil {
			return err
		}
		coord.SetGoalAndPath(goal)
	}

	g, gctx := errgroup.WithContext(ctx)

	if !runNoAPI {
		server, err := api.NewRestServer(api.Config{
			Port:        ":" + strconv.Itoa(cfg.Server.GetAPIPort()),
			Navigator:   coord,
			Registerer:  registry,
			Gatherer:    registry,
			Webhooks:    hooks,
			Logger:      logging.GetAPILogger(),
			ServiceName: cfg.Tracing.ServiceName,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return server.Start(gctx) })
	}

	g.Go(func() error { return tickLoop(gctx, coord, agent) })

	err = g.Wait()
	if errors.Is(err, errFinished) {
		err = nil
	}
	if err == nil && runExitAtGoal && coord.State() == coordinator.Failed {
		err = fmt.Errorf("навигация не удалась")
	}
	logging.Info("👋 Симуляция остановлена: %s, агент в %v", coord.State(), agent.Feet())
	return err
}

// tickLoop крутит координатор и кинематику агента с постоянной частотой
func tickLoop(ctx context.Context, coord *coordinator.Coordinator, agent *sim.Agent) error {
	speed := runSpeed
	if speed <= 0 {
		speed = 1
	}
	period := time.Duration(float64(time.Second) / (TickRate * speed))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	simLog := logging.GetSimLogger()
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		coord.Tick()
		agent.Step()
		tick++

		if tick%TickRate == 0 {
			snap := coord.Snapshot()
			simLog.Debug("тик %d: %s, ноги %v, движение %s (%s)", tick, snap.State, agent.Feet(), snap.Movement, snap.MovementStatus)
		}

		if runExitAtGoal {
			switch coord.State() {
			case coordinator.AtGoal, coordinator.Failed:
				return errFinished
			}
		}
	}
}
