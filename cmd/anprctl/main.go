package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"sort"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/anpr-client/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: anprctl [flags] <command> [args]

Commands:
  login              sign in with username, password and the code sent to you
  whoami             show the stored session and profile
  vehicles           list your vehicles and their parking status
  dashboard          show occupancy of the active parking
  ticket <id> [file] download the entry ticket PDF of a vehicle
  logout             remove the stored session
  demo               run every command against an in-process API

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Err(err).Msg("anprctl failed")
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	flags := flag.NewFlagSet("anprctl", flag.ContinueOnError)
	showMetrics := flags.Bool("metrics", false, "print API request metrics when the command finishes")
	quiet := flags.Bool("quiet", false, "do not print the banner")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)
	if !*quiet {
		displayAppname(cfg.GetAppName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := flags.Arg(0)
	reg := prometheus.NewRegistry()
	a, err := newApp(ctx, cfg, reg, in, out, command == "demo")
	if err != nil {
		return err
	}
	defer a.Close()

	returnError = a.dispatch(ctx, command, flags.Args()[1:])
	if *showMetrics {
		printMetrics(out, reg)
	}
	return returnError
}

func setupLogging(cfg config.EnvConfig) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

// printMetrics writes counters and histogram counts in a flat name{labels} value form.
func printMetrics(out io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Err(err).Msg("Could not gather metrics")
		return
	}
	lines := []string{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName() + "{" + strings.Join(labels, ",") + "}"
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(out)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
