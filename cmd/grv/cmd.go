package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	reservoir "github.com/flywave/go-reservoir"
	"github.com/flywave/go-reservoir/export"
	"github.com/flywave/go-reservoir/ingest"
	"github.com/flywave/go-reservoir/server"
)

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

type cli struct {
	cfg *viper.Viper
	log *logrus.Logger

	root, computeCmd, serveCmd, demoCmd *cobra.Command
}

func newCLI(stdout, stderr io.Writer) *cli {
	c := &cli{cfg: viper.New(), log: logrus.New()}
	c.log.SetOutput(stderr)
	c.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	c.root = &cobra.Command{
		Use:   "grv",
		Short: "Reservoir gross rock volume estimation.",
		Long: `grv interpolates a top structure surface from well control points and
integrates the rock column above the gas-oil and water-oil contacts.

Configuration can be given with command-line flags, a configuration file
(--config) or environment variables named GRV_<flag>, with dashes
replaced by underscores.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.setConfig() },
	}
	c.computeCmd = &cobra.Command{
		Use:   "compute [files...]",
		Short: "Compute volumes from CSV or XLSX control point files.",
		Long: `compute loads the control points in the given files (and the demo
dataset with --demo), interpolates the surface and prints the volumetric
report. Contacts default to 30% and 70% of the depth range.`,
		RunE: func(cmd *cobra.Command, args []string) error { return c.compute(cmd.OutOrStdout(), args) },
	}
	c.serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API.",
		RunE:  func(cmd *cobra.Command, args []string) error { return c.serve() },
	}
	c.demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Print the demo dataset as CSV.",
		Long: `demo prints the fixed 13 well dome, or with --synthetic a randomly
sampled noisy dome, in the CSV layout compute reads.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return export.WritePointsCSV(cmd.OutOrStdout(), c.demoPoints())
		},
	}
	c.root.AddCommand(c.computeCmd, c.serveCmd, c.demoCmd)
	c.root.SetOut(stdout)
	c.root.SetErr(stderr)

	c.bindOptions()
	return c
}

func (c *cli) options() []option {
	model := []*pflag.FlagSet{c.computeCmd.Flags(), c.serveCmd.Flags()}
	compute := []*pflag.FlagSet{c.computeCmd.Flags()}
	return []option{
		{
			name:       "config",
			usage:      "config specifies the configuration file location.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{c.root.PersistentFlags()},
		},
		{
			name:       "log-level",
			usage:      "log-level is one of trace, debug, info, warn, error.",
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{c.root.PersistentFlags()},
		},
		{
			name:       "nx",
			usage:      "nx is the number of grid nodes along X.",
			defaultVal: reservoir.DefaultNx,
			flagsets:   model,
		},
		{
			name:       "ny",
			usage:      "ny is the number of grid nodes along Y.",
			defaultVal: reservoir.DefaultNy,
			flagsets:   model,
		},
		{
			name: "method",
			usage: `method is the interpolation method: cubic, kriging or linear. Failures
              fall back to linear.`,
			shorthand:  "m",
			defaultVal: string(reservoir.Cubic),
			flagsets:   model,
		},
		{
			name:       "variogram",
			usage:      "variogram is the kriging model: gaussian, exponential or spherical.",
			defaultVal: string(reservoir.Spherical),
			flagsets:   model,
		},
		{
			name:       "cell",
			usage:      "cell is the interpolator used to tie the wells to the grid: bilinear or hyperbolic.",
			defaultVal: reservoir.BILINEAR,
			flagsets:   model,
		},
		{
			name:       "demo",
			usage:      "demo loads the demo dataset before any files.",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{c.computeCmd.Flags(), c.serveCmd.Flags()},
		},
		{
			name: "synthetic",
			usage: `synthetic replaces the demo dataset with this many wells sampled
              from a noisy dome.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{c.demoCmd.Flags(), c.computeCmd.Flags(), c.serveCmd.Flags()},
		},
		{
			name:       "seed",
			usage:      "seed is the random seed of the synthetic dataset.",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{c.demoCmd.Flags(), c.computeCmd.Flags(), c.serveCmd.Flags()},
		},
		{
			name:       "goc",
			usage:      "goc is the gas-oil contact depth.",
			defaultVal: "",
			flagsets:   compute,
		},
		{
			name:       "woc",
			usage:      "woc is the water-oil contact depth.",
			defaultVal: "",
			flagsets:   compute,
		},
		{name: "grid-csv", usage: "grid-csv writes the interpolated grid to this file.", defaultVal: "", flagsets: compute},
		{name: "stats-csv", usage: "stats-csv writes the input statistics to this file.", defaultVal: "", flagsets: compute},
		{name: "report", usage: "report writes the text report to this file.", defaultVal: "", flagsets: compute},
		{name: "pdf", usage: "pdf writes the PDF report to this file.", defaultVal: "", flagsets: compute},
		{name: "map", usage: "map writes the structure map PNG to this file.", defaultVal: "", flagsets: compute},
		{name: "section", usage: "section writes the cross section PNG to this file.", defaultVal: "", flagsets: compute},
		{
			name:       "addr",
			usage:      "addr is the address the HTTP server listens on.",
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{c.serveCmd.Flags()},
		},
	}
}

func (c *cli) bindOptions() {
	for _, option := range c.options() {
		for i, set := range option.flagsets {
			if i != 0 {
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			c.cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	c.cfg.SetEnvPrefix("GRV")
	c.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.cfg.AutomaticEnv()
}

// setConfig reads the configuration file, if there is one, and sets up
// logging.
func (c *cli) setConfig() error {
	if cfgpath := c.cfg.GetString("config"); cfgpath != "" {
		c.cfg.SetConfigFile(cfgpath)
		if err := c.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("grv: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(c.cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("grv: %v", err)
	}
	c.log.SetLevel(level)
	return nil
}

func (c *cli) interpolationOptions() (reservoir.Options, error) {
	method, err := reservoir.ParseMethod(c.cfg.GetString("method"))
	if err != nil {
		return reservoir.Options{}, err
	}
	model := reservoir.ModelType(c.cfg.GetString("variogram"))
	switch model {
	case reservoir.Gaussian, reservoir.Exponential, reservoir.Spherical:
	default:
		return reservoir.Options{}, fmt.Errorf("grv: unknown variogram %q", model)
	}
	return reservoir.Options{
		Nx:     cast.ToInt(c.cfg.Get("nx")),
		Ny:     cast.ToInt(c.cfg.Get("ny")),
		Method: method,
		Model:  &model,
		Cell:   c.cfg.GetString("cell"),
		Log:    c.log,
	}, nil
}

func (c *cli) demoPoints() []reservoir.ControlPoint {
	if n := cast.ToInt(c.cfg.Get("synthetic")); n > 0 {
		return reservoir.Synthetic(reservoir.SyntheticConfig{Wells: n, Seed: cast.ToInt64(c.cfg.Get("seed"))})
	}
	return reservoir.DemoDataset()
}

func (c *cli) loadPoints(store *reservoir.Store, files []string) error {
	if c.cfg.GetBool("demo") {
		if err := store.BulkLoad(c.demoPoints()); err != nil {
			return err
		}
	}
	for _, f := range files {
		pts, err := ingest.ReadFile(f)
		if err != nil {
			return err
		}
		if err := store.BulkLoad(pts); err != nil {
			return err
		}
		c.log.WithFields(logrus.Fields{"file": f, "points": len(pts)}).Info("loaded control points")
	}
	return nil
}

// contacts returns the configured contacts, filling unset ones with the
// defaults for the depth range of points.
func (c *cli) contacts(points []reservoir.ControlPoint) (reservoir.Contacts, error) {
	contacts := reservoir.DefaultContacts(reservoir.Describe(points))
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"goc", &contacts.GOC}, {"woc", &contacts.WOC}} {
		v := c.cfg.Get(p.name)
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return contacts, fmt.Errorf("grv: %s: %v", p.name, err)
		}
		*p.dst = f
	}
	return contacts, nil
}

func (c *cli) compute(stdout io.Writer, files []string) error {
	opts, err := c.interpolationOptions()
	if err != nil {
		return err
	}
	store := reservoir.NewStore()
	if err := c.loadPoints(store, files); err != nil {
		return err
	}
	if store.Len() == 0 {
		return fmt.Errorf("grv: no control points; pass files or --demo")
	}
	contacts, err := c.contacts(store.Points())
	if err != nil {
		return err
	}

	m, err := reservoir.EvaluateStore(store, contacts, opts)
	if err != nil {
		return err
	}
	for _, w := range m.Warnings {
		c.log.Warn(w)
	}

	report := export.NewReport(m)
	if err := export.WriteSummary(stdout, report); err != nil {
		return err
	}

	outputs := []struct {
		key    string
		render func(io.Writer) error
	}{
		{"grid-csv", func(w io.Writer) error { return export.WriteGridCSV(w, m.Surface) }},
		{"stats-csv", func(w io.Writer) error { return export.WriteStatsCSV(w, m.Stats) }},
		{"report", func(w io.Writer) error { return export.WriteSummary(w, report) }},
		{"map", func(w io.Writer) error { return export.RenderStructureMap(w, m, 0, 0) }},
		{"section", func(w io.Writer) error { return export.RenderCrossSection(w, m, 0, 0) }},
		{"pdf", func(w io.Writer) error {
			charts, err := export.Charts(m)
			if err != nil {
				return err
			}
			return export.WritePDF(w, report, charts)
		}},
	}
	for _, o := range outputs {
		path := c.cfg.GetString(o.key)
		if path == "" {
			continue
		}
		if err := writeFile(path, o.render); err != nil {
			return fmt.Errorf("grv: writing %s: %v", path, err)
		}
		c.log.WithField("file", path).Info("wrote " + o.key)
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (c *cli) serve() error {
	opts, err := c.interpolationOptions()
	if err != nil {
		return err
	}
	s := server.New(server.Config{Options: opts, Log: c.log})
	if err := s.Store(func(st *reservoir.Store) error { return c.loadPoints(st, nil) }); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.cfg.GetString("addr"),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	c.log.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
