// Command oldspot runs a Monte-Carlo reliability simulation over a chip
// configuration described in XML, modeling NBTI, EM, HCI and TDDB
// wearout, and reports mean time to failure per component.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/oldspot/oldspot/pkg/aggregate"
	"github.com/oldspot/oldspot/pkg/component"
	"github.com/oldspot/oldspot/pkg/mechanism"
	"github.com/oldspot/oldspot/pkg/simulate"
	"github.com/oldspot/oldspot/pkg/system/config"
	"github.com/oldspot/oldspot/pkg/system/params"
	"github.com/oldspot/oldspot/pkg/system/timeunit"
)

var allMechanismNames = []string{"NBTI", "EM", "HCI", "TDDB"}

type opts struct {
	iterations int
	mechanisms string
	delimiter  string
	timeUnits  string
	technology string
	nbtiParams string
	emParams   string
	hciParams  string
	tddbParams string
	unitRates  string
	mechRates  string
	dumpTTFs   string
	seed       uint64
	verbose    bool
	pretty     bool
	db         string
}

func main() {
	o := &opts{}

	root := &cobra.Command{
		Use:   "oldspot CONFIG.xml",
		Short: "Monte-Carlo SoC lifetime and reliability simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args[0])
		},
	}

	f := root.Flags()
	f.IntVarP(&o.iterations, "iterations", "n", 1000, "number of Monte-Carlo iterations")
	f.StringVar(&o.mechanisms, "mechanisms", "all", "comma-separated aging mechanisms to model (NBTI,EM,HCI,TDDB) or \"all\"")
	f.StringVar(&o.delimiter, "trace-delimiter", ",", "field delimiter for trace files")
	f.StringVar(&o.timeUnits, "time-units", "hours", "display time unit: seconds|minutes|hours|days|weeks|months|years")
	f.StringVar(&o.technology, "technology-file", "", "shared device parameter file")
	f.StringVar(&o.nbtiParams, "nbti-parameters", "", "NBTI parameter file")
	f.StringVar(&o.emParams, "em-parameters", "", "EM parameter file")
	f.StringVar(&o.hciParams, "hci-parameters", "", "HCI parameter file")
	f.StringVar(&o.tddbParams, "tddb-parameters", "", "TDDB parameter file")
	f.StringVar(&o.unitRates, "unit-aging-rates", "", "write per-unit aging rate CSV to this path")
	f.StringVar(&o.mechRates, "mechanism-aging-rates", "", "write per-mechanism aging rate CSV to this path")
	f.StringVar(&o.dumpTTFs, "dump-ttfs", "", "write raw per-iteration TTFs CSV to this path")
	f.Uint64Var(&o.seed, "seed", 0, "RNG seed (0 = nondeterministic)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log the constructed component tree before simulating")
	f.BoolVar(&o.pretty, "pretty", isatty.IsTerminal(os.Stdout.Fd()), "render the summary as an aligned table instead of a plain line per component")
	f.StringVar(&o.db, "db", "", "optional sqlite database path to persist raw TTFs and run metadata")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o *opts, configPath string) error {
	unit, err := timeunit.Parse(o.timeUnits)
	if err != nil {
		return err
	}

	mechanisms, err := buildMechanisms(o)
	if err != nil {
		return err
	}
	if len(mechanisms) == 0 {
		return fmt.Errorf("no aging mechanisms selected")
	}

	delimiter, _ := utf8DecodeOne(o.delimiter)

	loaded, err := config.Load(configPath, delimiter)
	if err != nil {
		return err
	}

	if o.verbose {
		for _, u := range loaded.Units {
			slog.Info(u.Dump())
		}
		slog.Info(loaded.Root.Dump())
	}

	for _, u := range loaded.Units {
		u.ComputeReliability(mechanisms)
	}

	rng := newRNG(o.seed)

	store, err := openStore(ctx, o.db)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	runID, err := simulate.Run(ctx, loaded.Root, loaded.Units, o.iterations, rng)
	if err != nil {
		slog.Warn("simulation interrupted", "run", runID, "error", err)
	}

	if store != nil {
		if err := store.RecordRun(ctx, runID, o.iterations, configPath, o.seed); err != nil {
			slog.Warn("failed to persist run metadata", "error", err)
		}
		if err := store.RecordTTFs(ctx, runID, loaded.Root.Name(), loaded.Root.AllTTFs()); err != nil {
			slog.Warn("failed to persist TTFs", "component", loaded.Root.Name(), "error", err)
		}
		for _, u := range loaded.Units {
			if err := store.RecordTTFs(ctx, runID, u.Name(), u.AllTTFs()); err != nil {
				slog.Warn("failed to persist TTFs", "component", u.Name(), "error", err)
			}
		}
	}

	recorders := []component.TTFRecorder{loaded.Root}
	for _, u := range loaded.Units {
		recorders = append(recorders, u)
	}

	printSummary(o, recorders, unit)

	if o.unitRates != "" {
		if err := writeUnitAgingRates(o.unitRates, loaded.Units, unit); err != nil {
			return err
		}
	}
	if o.mechRates != "" {
		if err := writeMechanismAgingRates(o.mechRates, loaded.Units, mechanisms); err != nil {
			return err
		}
	}
	if o.dumpTTFs != "" {
		if err := writeTTFDump(o.dumpTTFs, recorders, unit); err != nil {
			return err
		}
	}

	return nil
}

func buildMechanisms(o *opts) ([]mechanism.Mechanism, error) {
	tech := params.LoadOrWarn(o.technology)

	selected := allMechanismNames
	if o.mechanisms != "all" {
		tokens := strings.Split(o.mechanisms, ",")
		selected = nil
		for _, tok := range tokens {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			if !contains(allMechanismNames, tok) {
				slog.Warn("unknown aging mechanism, ignoring", "mechanism", tok)
				continue
			}
			selected = append(selected, tok)
		}
	}

	var out []mechanism.Mechanism
	for _, name := range selected {
		switch name {
		case "NBTI":
			out = append(out, mechanism.NewNBTI(overlay(tech, params.LoadOrWarn(o.nbtiParams))))
		case "EM":
			out = append(out, mechanism.NewEM(overlay(tech, params.LoadOrWarn(o.emParams))))
		case "HCI":
			out = append(out, mechanism.NewHCI(overlay(tech, params.LoadOrWarn(o.hciParams))))
		case "TDDB":
			out = append(out, mechanism.NewTDDB(overlay(tech, params.LoadOrWarn(o.tddbParams))))
		}
	}
	return out, nil
}

// overlay merges specific onto base, with specific's keys winning.
func overlay(base, specific mechanism.Params) mechanism.Params {
	merged := make(mechanism.Params, len(base)+len(specific))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range specific {
		merged[k] = v
	}
	return merged
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

func utf8DecodeOne(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ',', false
}

// newRNG seeds the simulator's generator. A zero seed draws entropy from
// the runtime's nondeterministic source; a nonzero seed makes the run
// exactly reproducible.
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func printSummary(o *opts, recorders []component.TTFRecorder, unit timeunit.Unit) {
	summaries := aggregate.All(recorders, 0.95)

	if !o.pretty {
		for _, s := range summaries {
			fmt.Printf("%s,%g,%g,%g,%g,%d\n", s.Name,
				timeunit.Convert(s.MTTF, unit), timeunit.Convert(s.StdTTF, unit),
				timeunit.Convert(s.CILow, unit), timeunit.Convert(s.CIHigh, unit), s.Samples)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "COMPONENT\tMTTF (%s)\tSTDDEV\t95%% CI LOW\t95%% CI HIGH\tSAMPLES\n", unit)
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%d\n", s.Name,
			timeunit.Convert(s.MTTF, unit), timeunit.Convert(s.StdTTF, unit),
			timeunit.Convert(s.CILow, unit), timeunit.Convert(s.CIHigh, unit), s.Samples)
	}
	w.Flush()
}

func writeUnitAgingRates(path string, units []*component.Unit, unit timeunit.Unit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"unit", "mttf", "failures", "alpha", "area"}); err != nil {
		return err
	}
	for _, u := range units {
		mttf := timeunit.Convert(sampleMeanOf(u.AllTTFs()), unit)
		alpha := timeunit.Convert(u.AgingRate(component.Fresh), unit)
		row := []string{
			u.Name(),
			strconv.FormatFloat(mttf, 'g', -1, 64),
			strconv.Itoa(len(u.AllTTFs())),
			strconv.FormatFloat(alpha, 'g', -1, 64),
			strconv.FormatFloat(u.Area, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeMechanismAgingRates(path string, units []*component.Unit, mechanisms []mechanism.Mechanism) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"unit"}
	for _, m := range mechanisms {
		header = append(header, m.Name())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, u := range units {
		row := []string{u.Name()}
		for _, m := range mechanisms {
			row = append(row, strconv.FormatFloat(u.AgingRateForMechanism(m.Name()), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeTTFDump(path string, recorders []component.TTFRecorder, unit timeunit.Unit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, r := range recorders {
		row := []string{r.Name()}
		for _, t := range r.AllTTFs() {
			row = append(row, strconv.FormatFloat(timeunit.Convert(t, unit), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func sampleMeanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
