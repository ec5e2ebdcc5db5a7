// Command sptinfo approximates FIR taps with sums of signed powers of two
// and prints the per-tap result.
//
// Usage:
//
//	sptinfo [flags] [tap ...]
//
// Taps are read from the arguments or, with -file, from a file of numbers
// separated by whitespace or commas. Lines starting with # are ignored.
// Put -- before the taps when the first one is negative.
// Defaults for -budget, -strategy, -max-terms and -max-width may be set
// through SPT_BUDGET, SPT_STRATEGY, SPT_MAX_TERMS and SPT_MAX_WIDTH, also
// from a .env file in the working directory.
//
// Examples:
//
//	sptinfo 0.3 0.1 -0.05
//	sptinfo -strategy greedy -budget 20 -file taps.txt
//	sptinfo -int -budget 27 -num-bits 6 51 24 11 39 1 27 17 61 49 18
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/cwbudde/algo-spt/dsp/spt"
	"github.com/cwbudde/algo-spt/dsp/spt/alloc"
	"github.com/cwbudde/algo-spt/internal/intmath"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// settings are the command-line parameters after environment defaults
// have been applied.
type settings struct {
	strategy  string
	budget    int
	maxTerms  int
	maxWidth  int
	numBits   int
	boundary  int
	workers   int
	scale     string
	fftSize   int
	noZero    bool
	integer   bool
	verbose   bool
	file      string
	budgetSet bool
}

func defaults(getenv func(string) string) (settings, error) {
	s := settings{
		strategy: "hybrid",
		maxTerms: 2,
		maxWidth: 20,
		scale:    "fixed",
	}
	if v := getenv("SPT_STRATEGY"); v != "" {
		s.strategy = v
	}
	for _, e := range []struct {
		key string
		dst *int
	}{
		{"SPT_BUDGET", &s.budget},
		{"SPT_MAX_TERMS", &s.maxTerms},
		{"SPT_MAX_WIDTH", &s.maxWidth},
	} {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return s, fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}
	return s, nil
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	s, err := defaults(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("sptinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&s.strategy, "strategy", s.strategy, "allocation strategy: uniform, greedy, hybrid, pertap")
	fs.IntVar(&s.budget, "budget", s.budget, "total number of SPT terms (default max-terms per tap)")
	fs.IntVar(&s.maxTerms, "max-terms", s.maxTerms, "maximum terms per tap (0 = no cap)")
	fs.IntVar(&s.maxWidth, "max-width", s.maxWidth, "maximum fixed-point width in bits")
	fs.IntVar(&s.numBits, "num-bits", 0, "largest candidate exponent (default derived from the taps)")
	fs.IntVar(&s.boundary, "boundary", 0, "number of largest taps in the uniform base pass (0 = automatic)")
	fs.IntVar(&s.workers, "workers", 1, "goroutines for the uniform base pass")
	fs.StringVar(&s.scale, "scale", s.scale, "scale factor: fixed or unity")
	fs.IntVar(&s.fftSize, "fft", 0, "compare frequency responses on an FFT grid of this size")
	fs.BoolVar(&s.noZero, "no-zero", false, "exclude zero from the candidate set")
	fs.BoolVar(&s.integer, "int", false, "treat taps as integers and skip fixed-point conversion")
	fs.BoolVar(&s.verbose, "v", false, "debug logging")
	fs.StringVar(&s.file, "file", "", "read taps from file")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sptinfo [flags] [tap ...]\n\n")
		fmt.Fprintf(stderr, "Approximates FIR taps with sums of signed powers of two.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  sptinfo 0.3 0.1 -0.05\n")
		fmt.Fprintf(stderr, "  sptinfo -strategy greedy -budget 20 -file taps.txt\n")
		fmt.Fprintf(stderr, "  sptinfo -int -budget 27 -num-bits 6 51 24 11 39\n")
		fmt.Fprintf(stderr, "  sptinfo -- -0.05 0.3 -0.05\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if s.budget != 0 {
		s.budgetSet = true
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "budget" {
			s.budgetSet = true
		}
	})

	level := slog.LevelWarn
	if s.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fields := fs.Args()
	if s.file != "" {
		f, err := os.Open(s.file)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		fromFile, err := readFields(f)
		_ = f.Close()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", s.file, err)
			return 1
		}
		fields = append(fromFile, fields...)
	}
	if len(fields) == 0 {
		fs.Usage()
		return 2
	}

	strategy, err := alloc.ParseStrategy(s.strategy)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if s.integer {
		taps, err := parseInts(fields)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		return runInt(ctx, taps, strategy, s, log, stdout, stderr)
	}

	taps, err := parseFloats(fields)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	opts, err := options(s, strategy, log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	res, err := spt.Approximate(ctx, taps, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := printResult(stdout, taps, res); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func options(s settings, strategy alloc.Strategy, log *slog.Logger) ([]spt.Option, error) {
	opts := []spt.Option{
		spt.WithStrategy(strategy),
		spt.WithMaxTerms(s.maxTerms),
		spt.WithMaxBitWidth(s.maxWidth),
		spt.WithNumBits(s.numBits),
		spt.WithBoundary(s.boundary),
		spt.WithWorkers(s.workers),
		spt.WithResponseCheck(s.fftSize),
		spt.WithLogger(log),
	}
	if s.budgetSet {
		opts = append(opts, spt.WithBudget(s.budget))
	}
	if s.noZero {
		opts = append(opts, spt.WithoutZero())
	}
	switch strings.ToLower(s.scale) {
	case "fixed":
		opts = append(opts, spt.WithScaleMode(spt.ScaleFixedPoint))
	case "unity":
		opts = append(opts, spt.WithScaleMode(spt.ScaleUnityGain))
	default:
		return nil, fmt.Errorf("unknown scale mode %q", s.scale)
	}
	return opts, nil
}

func runInt(ctx context.Context, taps []int64, strategy alloc.Strategy, s settings, log *slog.Logger, stdout, stderr io.Writer) int {
	budget := s.budget
	if !s.budgetSet {
		budget = 2 * len(taps)
		if s.maxTerms > 0 {
			budget = s.maxTerms * len(taps)
		}
	}
	numBits := s.numBits
	if numBits == 0 {
		numBits = max(intmath.BitLen(intmath.MaxAbs(taps)), 1)
	}
	rep, err := alloc.Allocate(ctx, taps, alloc.Config{
		Strategy:    strategy,
		Budget:      budget,
		NumBits:     numBits,
		MaxTerms:    s.maxTerms,
		Boundary:    s.boundary,
		WithoutZero: s.noZero,
		Workers:     s.workers,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := printReport(stdout, rep); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

// readFields splits r into number fields.
func readFields(r io.Reader) ([]string, error) {
	var fields []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields = append(fields, splitFields(line)...)
	}
	return fields, sc.Err()
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

func parseFloats(args []string) ([]float64, error) {
	var out []float64
	for _, a := range args {
		for _, f := range splitFields(a) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid tap %q", f)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func parseInts(args []string) ([]int64, error) {
	var out []int64
	for _, a := range args {
		for _, f := range splitFields(a) {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid integer tap %q", f)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func printResult(w io.Writer, taps []float64, res *spt.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Tap\tValue\tExact\tApprox\tError\tTerms\tSPT\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---\t-----\t-----\t------\t-----\t-----\t---\n"); err != nil {
		return err
	}
	coeffs := res.Coefficients()
	for i, t := range res.Report.Taps {
		if _, err := fmt.Fprintf(tw, "%d\t%.8g\t%d\t%d\t%.3g\t%d\t%s\n",
			i, taps[i], t.Exact, t.Approx(), coeffs[i]-taps[i], t.Budget, formatTerms(res.Terms(i)),
		); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	r := res.Report
	if _, err := fmt.Fprintf(w, "\nstrategy %s, width %d, scale %d (2^%d), budget %d, spent %d, adders %d\n",
		r.Strategy, res.Width, res.Scale, res.ScaleShift, r.Budget, r.Spent, res.Adders()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "total cost %d, searches %d, subsets %d, failures %d\n",
		r.TotalCost, r.TotalCalls, r.Evaluated, len(r.Failures)); err != nil {
		return err
	}
	if c := res.Response; c != nil {
		if _, err := fmt.Fprintf(w, "response: max %.3f dB, rms %.3f dB, error energy %.3g, dc ratio %.6f\n",
			c.MaxDeviationDB, c.RMSDeviationDB, c.ErrorEnergy, c.DCGainRatio); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, r *alloc.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Tap\tExact\tApprox\tCost\tTerms\tValues\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---\t-----\t------\t----\t-----\t------\n"); err != nil {
		return err
	}
	for i, t := range r.Taps {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%v\n",
			i, t.Exact, t.Approx(), t.Cost(), t.Budget, t.Terms); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nstrategy %s, budget %d, spent %d, total cost %d, searches %d, failures %d\n",
		r.Strategy, r.Budget, r.Spent, r.TotalCost, r.TotalCalls, len(r.Failures))
	return err
}

func formatTerms(terms []spt.Term) string {
	if len(terms) == 0 {
		return "0"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
