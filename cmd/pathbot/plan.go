package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/annel0/voxel-pathing/internal/logging"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/pathing/pathdump"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/spf13/cobra"
)

var (
	planScene   sceneFlags
	planGoal    string
	planTimeout time.Duration
	planDump    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Один поиск пути в сгенерированном мире",
	Long: `Генерирует мир по сиду, ставит агента на поверхность стартовой колонки
и выполняет один поиск до цели. Путь печатается по перемещениям.`,
	Example: `  pathbot plan --goal block:40,70,12
  pathbot plan --seed 7 --goal "xz:100,-30" --dump path.json.zst`,
	RunE: runPlan,
}

func init() {
	addSceneFlags(planCmd, &planScene)
	planCmd.Flags().StringVarP(&planGoal, "goal", "g", "", "цель: block:x,y,z | two:x,y,z | near:x,y,z,r | xz:x,z (через ';' - любая из)")
	planCmd.Flags().DurationVar(&planTimeout, "timeout", 0, "мягкий дедлайн поиска (по умолчанию из конфига)")
	planCmd.Flags().StringVar(&planDump, "dump", "", "записать сжатый дамп пути в файл")
	_ = planCmd.MarkFlagRequired("goal")
}

func addSceneFlags(cmd *cobra.Command, f *sceneFlags) {
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "сид генератора мира")
	cmd.Flags().IntVar(&f.radius, "radius", 4, "радиус генерации в чанках")
	cmd.Flags().IntVar(&f.startX, "start-x", 0, "стартовая колонка X")
	cmd.Flags().IntVar(&f.startZ, "start-z", 0, "стартовая колонка Z")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	goal, err := parseGoal(planGoal)
	if err != nil {
		return err
	}
	m, start, err := buildScene(planScene)
	if err != nil {
		return err
	}
	logging.Info("🗺️ Мир: сид %d, чанков %d, старт %v", planScene.seed, m.ChunkCount(), start)

	timeout := planTimeout
	if timeout <= 0 {
		timeout = time.Duration(cfg.Pathing.PathTimeoutMs) * time.Millisecond
	}

	p, res, err := planOnce(cmd, m, start, goal, timeout)
	if err != nil {
		return err
	}
	printPath(cmd.OutOrStdout(), res, p)

	if planDump != "" {
		if err := writeDump(planDump, p); err != nil {
			return err
		}
		logging.Info("💾 Дамп пути записан в %s", planDump)
	}
	return nil
}

func planOnce(cmd *cobra.Command, w *world.Map, start vec.Vec3, goal goals.Goal, timeout time.Duration) (*calc.Path, calc.Result, error) {
	settings := cfg.Pathing
	ctx := movement.NewContext(settings, w, defaultHotbar(), nil)
	finder := calc.NewFinder(start, goal.Simplify(w.IsLoaded), ctx, timeout)

	res := finder.Calculate(cmd.Context())
	logging.Info("🔎 Поиск: %s, узлов %d за %s", res.Kind, res.NodesConsidered, res.Duration)

	p := calc.Assemble(res, goal, ctx)
	if p == nil {
		return nil, res, fmt.Errorf("путь не найден: %s", res.Kind)
	}
	if settings.CutoffAtLoadBoundary {
		p = p.CutoffAtLoadedChunks(w.IsLoaded)
	}
	return p, res, nil
}

func printPath(out io.Writer, res calc.Result, p *calc.Path) {
	fmt.Fprintf(out, "Цель: %s\nИсход: %s, узлов: %d, время: %s\n", p.Goal(), res.Kind, res.NodesConsidered, res.Duration)
	fmt.Fprintf(out, "Перемещений: %d, стоимость: %.2f тиков", len(p.Movements()), p.TotalCost())
	if p.Truncated() {
		fmt.Fprint(out, " (обрезан на границе загрузки)")
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tТИП\tОТКУДА\tКУДА\tСТОИМОСТЬ")
	for i, mv := range p.Movements() {
		fmt.Fprintf(tw, "%d\t%s\t%v\t%v\t%.2f\n", i, mv.Type, mv.Src, mv.Dest, mv.Cost())
	}
	_ = tw.Flush()
}

func writeDump(name string, p *calc.Path) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("создание дампа: %w", err)
	}
	if err := pathdump.Write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
