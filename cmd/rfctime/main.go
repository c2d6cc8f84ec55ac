package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/curtisnewbie/rfctime/config"
	"github.com/curtisnewbie/rfctime/logging"
	"github.com/curtisnewbie/rfctime/util/atom"
	"github.com/curtisnewbie/rfctime/util/errs"
	"github.com/curtisnewbie/rfctime/util/flags"
	"github.com/curtisnewbie/rfctime/util/json"
	"github.com/curtisnewbie/rfctime/util/rfc3339"
	"github.com/curtisnewbie/rfctime/util/strutil"
	"github.com/curtisnewbie/rfctime/version"
)

var (
	Debug            = flags.Bool("debug", false, "enable debug log", false)
	Tz               = flags.String("tz", "", "serialization timezone, e.g., UTC, +05:30, Asia/Shanghai", false)
	StandardFraction = flags.Bool("standard-fraction", false, "write fraction as zero-padded milliseconds and read it as decimal fraction", false)
	TotalOffsetSign  = flags.Bool("total-offset-sign", false, "take the offset sign from the total offset, e.g., '-00:30' instead of '+00:30'", false)
	Policy           = flags.String("policy", "", "json date policy: rfc3339, unix-millis, unix-seconds, unix-positive-millis, unix-positive-seconds", false)
	ConfigFile       = flags.String("config", "", "path to yaml config file", false)
)

func main() {
	flags.WithDescriptionBuilder(func(printlnf func(v string, args ...any)) {
		printlnf("rfctime - format and parse RFC3339 timestamps\n")
		printlnf("  rfctime build version: %v\n", version.Version)
		printlnf("  rfctime [flags] format [millis|now...]")
		printlnf("  rfctime [flags] parse [text...]")
		printlnf("  rfctime [flags] json [value...]\n")
	})
	flags.WithExtra("Trailing KEY=VALUE args override config props, e.g., rfc3339.serialization-timezone=+08:00")
	flags.Parse()

	cmd, operands, kvs := splitArgs(flag.Args())
	closer, err := setup(kvs)
	if err != nil {
		logging.Errorf("Failed to load config, %v", describeErr(err))
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cmd, operands, os.Stdout); err != nil {
		logging.Errorf("%v failed, %v", cmd, describeErr(err))
		logging.Debugf("%v", errs.ErrorStackTrace(err))
		closer.Close()
		os.Exit(1)
	}
}

// Describe err by code, message, detail and cause, errors without code are described by Error().
func describeErr(err error) string {
	var re *errs.RfcErr
	if !errors.As(err, &re) || !re.HasCode() {
		return err.Error()
	}
	s := fmt.Sprintf("[%v] %v", re.Code(), re.Msg())
	if m := re.InternalMsg(); m != "" {
		s += ", " + m
	}
	if c := re.Cause(); c != nil {
		s += ", cause: " + c.Error()
	}
	return s
}

// Split args into subcommand, operands and KEY=VALUE overrides.
func splitArgs(args []string) (cmd string, operands []string, kvs []string) {
	if len(args) < 1 {
		return "", nil, nil
	}
	cmd = args[0]
	for _, a := range args[1:] {
		if strings.Contains(a, "=") {
			kvs = append(kvs, a)
		} else {
			operands = append(operands, a)
		}
	}
	return
}

func setup(kvs []string) (io.Closer, error) {
	conf := config.NewAppConfig()
	if err := conf.LoadConfigFromFile(*ConfigFile); err != nil {
		return nil, err
	}
	conf.OverwriteConf(kvs)
	if *Tz != "" {
		conf.SetProp(config.PropSerializationTimezone, *Tz)
	}
	if *StandardFraction {
		conf.SetProp(config.PropStandardFraction, true)
	}
	if *TotalOffsetSign {
		conf.SetProp(config.PropTotalOffsetSign, true)
	}
	if *Policy != "" {
		conf.SetProp(config.PropJsonDatePolicy, *Policy)
	}
	if *Debug {
		conf.SetProp(config.PropLoggingLevel, "debug")
	}

	closer, err := conf.ConfigureLogging()
	if err != nil {
		return nil, err
	}
	if err := conf.ApplyGlobal(); err != nil {
		closer.Close()
		return nil, err
	}
	return closer, nil
}

func run(cmd string, operands []string, w io.Writer) error {
	switch cmd {
	case "format":
		return runFormat(operands, w)
	case "parse":
		return runParse(operands, w)
	case "json":
		return runJson(operands, w)
	case "":
		return errs.ErrIllegalArgument.WithInternalMsg("missing subcommand, one of: format, parse, json")
	default:
		return errs.ErrIllegalArgument.WithInternalMsg("unknown subcommand '%v'", cmd)
	}
}

func runFormat(operands []string, w io.Writer) error {
	if len(operands) < 1 {
		operands = []string{"now"}
	}
	c := atom.SerializationCodec()
	for _, op := range operands {
		var t time.Time
		if op == "now" {
			t = time.Now()
		} else {
			ms, err := strconv.ParseInt(op, 10, 64)
			if err != nil {
				return errs.ErrIllegalArgument.Wrapf(err, "'%v' is not epoch millis", op)
			}
			t = time.UnixMilli(ms)
		}
		logging.Debugf("Formatting %v", t)
		fmt.Fprintln(w, c.Format(t))
	}
	return nil
}

func runParse(operands []string, w io.Writer) error {
	c := atom.SerializationCodec()
	for _, op := range operands {
		t, err := c.Parse(op)
		if err != nil {
			return err
		}
		logging.Debugf("Parsed '%v' as %v", op, t)
		fmt.Fprintf(w, "%d\t%d\t%s\n", t.UnixMilli(), t.Unix(), rfc3339.Format(t))
	}
	return nil
}

func runJson(operands []string, w io.Writer) error {
	for _, op := range operands {
		body := op
		if _, err := strconv.ParseInt(op, 10, 64); err != nil && op != "null" {
			body = strutil.QuoteStr(op)
		}
		var t time.Time
		if err := json.SParseJson(body, &t); err != nil {
			return err
		}
		s, err := json.SWriteJson(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return nil
}
