package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/stojg/bestfit/leastsquares"
)

var debug bool
var showHistogram bool
var timeRange = 7 * 24 * 60 * time.Minute

var region = "ap-southeast-2"

const defaultImageFormat = "png"

// observations holds x/y pairs in input order and satisfies plotter.XYer.
type observations struct{ x, y []float64 }

func (a *observations) Len() int                { return len(a.x) }
func (a *observations) XY(i int) (x, y float64) { return a.x[i], a.y[i] }

func (a *observations) add(x, y float64) {
	a.x = append(a.x, x)
	a.y = append(a.y, y)
}

type config struct {
	input     string
	dataset   string
	serialDev string
	baud      int
	maxLines  int
	cw        cloudWatchQuery
	plotPath  string
	bucket    string
	format    string
	tolerance float64

	// period is anchored when CloudWatch metrics are fetched
	period *Period
}

func (c *config) source() string {
	switch {
	case c.dataset != "":
		return "dataset " + c.dataset
	case c.cw.x != "":
		return fmt.Sprintf("cloudwatch %s %s/%s", c.cw.namespace, c.cw.x, c.cw.y)
	case c.serialDev != "":
		return "serial " + c.serialDev
	case c.input != "" && c.input != "-":
		return c.input
	}
	return "stdin"
}

func main() {
	cfg := &config{}

	flag.BoolVar(&debug, "d", false, "debug")
	flag.BoolVar(&showHistogram, "histogram", false, "plot a histogram of the residuals instead of the scatter")
	flag.StringVar(&region, "region", "ap-southeast-2", "AWS region")
	flag.StringVar(&cfg.input, "in", "-", "file with one x,y pair per line (.gz, .zst and .lz4 are decompressed), - for stdin")
	flag.StringVar(&cfg.dataset, "dataset", "", "use a built-in dataset, e.g. challenger or challenger:7")
	flag.StringVar(&cfg.serialDev, "serial", "", "read x,y pairs from a serial device")
	flag.IntVar(&cfg.baud, "baud", 9600, "serial baud rate")
	flag.IntVar(&cfg.maxLines, "max-lines", 0, "stop reading after this many lines (0 reads to the end)")
	flag.StringVar(&cfg.cw.namespace, "cw-namespace", "", "CloudWatch namespace of the metrics")
	flag.StringVar(&cfg.cw.x, "cw-x", "", "CloudWatch metric used as the independent variable")
	flag.StringVar(&cfg.cw.y, "cw-y", "", "CloudWatch metric used as the dependent variable")
	flag.StringVar(&cfg.cw.statistic, "cw-stat", "Sum", "CloudWatch statistic (Sum, Average, Minimum, Maximum, SampleCount)")
	flag.Var(&cfg.cw.dimensions, "cw-dim", "CloudWatch dimension as Name=Value, may be repeated")
	flag.DurationVar(&timeRange, "range", timeRange, "CloudWatch time range, fetched a day at a time")
	flag.StringVar(&cfg.plotPath, "plot", "", "write a plot of the fit to this file (.png, .svg, .pdf)")
	flag.StringVar(&cfg.bucket, "bucket", "", "upload the plot to this S3 bucket and print a presigned link")
	flag.StringVar(&cfg.format, "format", defaultReport, "pongo2 template for the report")
	flag.Float64Var(&cfg.tolerance, "tolerance", leastsquares.DefaultConditionTolerance, "largest accepted condition number of the normal matrix")
	flag.Parse()

	if !debug {
		log.SetFlags(0)
	}

	os.Exit(run(cfg, os.Stdin, os.Stdout, os.Stderr))
}

// run fits a line through the configured source and returns the process
// exit code: 0 on success, 1 on failure and 2 when no usable pairs were found.
func run(cfg *config, stdin io.Reader, stdout, stderr io.Writer) int {
	warn := log.New(stderr, "", 0)

	obs, skipped, err := load(cfg, stdin, warn)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read observations from %s: %v\n", cfg.source(), err)
		return 1
	}
	if obs.Len() == 0 {
		fmt.Fprintf(stderr, "no valid x,y pairs were found in %s (%d lines skipped)\n", cfg.source(), skipped)
		return 2
	}
	debugf("read %d pairs, skipped %d", obs.Len(), skipped)

	line, err := leastsquares.Fit(obs.x, obs.y, leastsquares.WithConditionTolerance(cfg.tolerance))
	if err != nil {
		fmt.Fprintf(stderr, "could not fit a line through %d pairs: %v\n", obs.Len(), err)
		return 1
	}
	debugf("fitted %s", line)

	if cfg.plotPath != "" || cfg.bucket != "" {
		if err := outputPlot(cfg, obs, line, stdout); err != nil {
			fmt.Fprintf(stderr, "Could not write out plot %v\n", err)
			return 1
		}
	}

	r := newReport(cfg.source(), obs, skipped, line)
	if err := r.render(stdout, cfg.format); err != nil {
		fmt.Fprintf(stderr, "could not render report: %v\n", err)
		return 1
	}
	return 0
}

func load(cfg *config, stdin io.Reader, warn *log.Logger) (*observations, int, error) {
	switch {
	case cfg.dataset != "":
		obs, err := builtinDataset(cfg.dataset)
		return obs, 0, err
	case cfg.cw.x != "":
		cfg.period = NewPeriod(time.Now(), timeRange)
		obs, err := readCloudWatch(cfg.cw, cfg.period)
		return obs, 0, err
	case cfg.serialDev != "":
		return readSerial(cfg.serialDev, cfg.baud, cfg.maxLines, warn)
	case cfg.input == "" || cfg.input == "-":
		return readPairs(stdin, cfg.maxLines, warn)
	}

	f, err := openInput(cfg.input)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return readPairs(f, cfg.maxLines, warn)
}

func outputPlot(cfg *config, obs *observations, line leastsquares.Line, stdout io.Writer) error {
	name := cfg.source()
	p := createPlot(name)
	if showHistogram {
		if err := histogram(p, obs, line); err != nil {
			return err
		}
	} else if err := plotScatter(p, obs, line); err != nil {
		return err
	}
	if cfg.period != nil {
		addTimespanLabel(p, cfg.period)
	}

	if cfg.plotPath != "" {
		if err := savePlot(cfg.plotPath, p); err != nil {
			return err
		}
		debugf("wrote plot to %s", cfg.plotPath)
	}

	if cfg.bucket != "" {
		base := strings.TrimSuffix(filepath.Base(cfg.plotPath), filepath.Ext(cfg.plotPath))
		if base == "" || base == "." {
			base = "bestfit"
		}
		sess := session.Must(session.NewSession(&aws.Config{Region: aws.String(region)}))
		link, err := uploadPlot(newPlotStore(sess), p, cfg.bucket, base, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "plot: %s\n", link)
	}
	return nil
}

func debugf(format string, args ...interface{}) {
	if debug {
		log.Printf(format, args...)
	}
}
