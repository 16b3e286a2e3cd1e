package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/examples/surveyor/lander"
	"github.com/vesselbridge/sdk/host"
	"github.com/vesselbridge/sdk/hostfuncs"
	"github.com/vesselbridge/sdk/infrastructure/simhost"
	"github.com/vesselbridge/sdk/wireformat"
)

// startMJD is the simulation date of the first frame (2000-01-01 12:00).
const startMJD = 51544.5

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Construct, configure and step one vessel",
		Example: `  vesselsim run --frames 600 --level 0.5
  vesselsim run --module surveyor.wasm --config surveyor.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("class", lander.ClassName, "vessel class to construct")
	f.String("config", "", "class configuration document (default is the class's stock document)")
	f.String("module", "", "WASM logic module to run instead of a built-in class")
	f.String("vessel", "SURVEYOR-1", "vessel name")
	f.Int("flight-model", int(entities.FlightModelRealistic), "flight model: 0 easy, 1 realistic")
	f.Int("frames", 600, "number of frames to run")
	f.Float64("rate", 60, "frame rate [Hz]")
	f.String("group", "hover", "thruster group the pilot holds at --level")
	f.Float64("level", 0, "thruster group level held every frame")
	f.Bool("metrics", false, "print host call counters after the run")

	for _, name := range []string{"class", "config", "module", "vessel", "flight-model", "frames", "rate", "group", "level", "metrics"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f.Lookup(name))
	}
	return cmd
}

func (a *app) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := a.logger()

	class := a.v.GetString("class")
	frames := a.v.GetInt("frames")
	rate := a.v.GetFloat64("rate")
	if rate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", rate)
	}
	group, err := entities.ParseThrusterGroupType(a.v.GetString("group"))
	if err != nil {
		return err
	}

	doc, err := a.classConfig(class)
	if err != nil {
		return err
	}

	sim := simhost.New(simhost.WithClass(class, doc))
	hv := sim.AddVessel(a.v.GetString("vessel"), class)
	cfg, _ := sim.ClassConfigHandle(class)

	promReg := prometheus.NewRegistry()
	metrics, err := hostfuncs.NewMetrics(promReg)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	factory, cleanup, err := a.factory(ctx, class, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	h, err := host.InitWith(sim, hv, int32(a.v.GetInt("flight_model")), factory,
		host.WithLogger(logger),
		host.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("construct %s: %w", class, err)
	}
	defer host.Exit(h)

	if err := host.SetClassCaps(h, cfg); err != nil {
		return fmt.Errorf("configure %s: %w", class, err)
	}

	level := a.v.GetFloat64("level")
	held := sim.SetThrusterGroupLevel(hv, int32(group), level)
	if !held && level != 0 {
		logger.Warn("vesselsim: vessel has no such thruster group, level ignored", "group", group)
	}

	dt := 1 / rate
	for i := 0; i < frames; i++ {
		if held {
			sim.SetThrusterGroupLevel(hv, int32(group), level)
		}
		simt := float64(i) * dt
		if err := host.PreStep(h, simt, dt, startMJD+simt/86400); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	report(a.out, sim, hv, frames, dt)
	if a.v.GetBool("metrics") {
		return writeMetrics(a.out, promReg)
	}
	return nil
}

// classConfig returns the configuration document for class.
func (a *app) classConfig(class string) ([]byte, error) {
	path := a.v.GetString("config")
	if path == "" {
		if class == lander.ClassName {
			return []byte(lander.DefaultConfig), nil
		}
		return nil, fmt.Errorf("class %q has no stock configuration; use --config", class)
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class config: %w", err)
	}
	return doc, nil
}

// factory returns the driver factory for class and a cleanup function that
// must run after the vessel has exited.
func (a *app) factory(ctx context.Context, class string, logger *slog.Logger) (host.DriverFactory, func(), error) {
	module := a.v.GetString("module")
	if module == "" {
		def, ok := a.catalog.Lookup(class)
		if !ok {
			return nil, nil, fmt.Errorf("unknown class %q (built in: %v)", class, a.catalog.List())
		}
		return host.NativeFactory(def, vessel.WithBoxLogger(logger)), func() {}, nil
	}

	wasmBytes, err := os.ReadFile(module)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read module: %w", err)
	}
	exec, err := host.NewExecutor(ctx, host.WithExecutorLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	mod, err := exec.LoadModule(ctx, strings.TrimSuffix(filepath.Base(module), ".wasm"), wasmBytes)
	if err != nil {
		_ = exec.Close(ctx)
		return nil, nil, err
	}
	return mod.Factory(ctx, class), func() { _ = exec.Close(ctx) }, nil
}

func report(w io.Writer, sim *simhost.Host, hv wireformat.Handle, frames int, dt float64) {
	v, ok := sim.Vessel(hv)
	if !ok {
		fmt.Fprintln(w, "vessel no longer exists")
		return
	}

	fmt.Fprintf(w, "vessel %s (%s): %d frames, %.2f s simulated\n", v.Name, v.Class, frames, float64(frames)*dt)

	meshes := make([]string, 0, len(v.Meshes))
	for _, m := range v.Meshes {
		meshes = append(meshes, m.Name)
	}
	fmt.Fprintf(w, "  meshes:     %s\n", strings.Join(meshes, ", "))

	var fuel float64
	for _, m := range v.Propellants {
		fuel += m
	}
	fmt.Fprintf(w, "  thrusters:  %d\n", len(v.Thrusters))
	fmt.Fprintf(w, "  propellant: %.1f kg in %d tank(s)\n", fuel, len(v.Propellants))

	types := make([]int, 0, len(v.Groups))
	for t := range v.Groups {
		types = append(types, int(t))
	}
	sort.Ints(types)
	for _, t := range types {
		g := entities.ThrusterGroupType(t)
		fmt.Fprintf(w, "  group %-14s %d thruster(s) at %.2f\n", g.String()+":", len(v.Groups[int32(t)]), v.Levels[int32(t)])
	}

	for _, line := range sim.DebugLines() {
		fmt.Fprintf(w, "  | %s\n", line)
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
