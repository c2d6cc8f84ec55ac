package flags

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

var (
	requiredFlags      = map[string]struct{}{}
	descriptionBuilder func(printlnf func(v string, args ...any))
	extra              string
)

func updateUsage(usage string, required bool) string {
	if required {
		usage = strings.TrimSpace(usage)
		if usage != "" {
			usage = usage + ". "
		}
		usage = usage + "Required."
	}
	return usage
}

func Bool(name string, value bool, usage string, required bool) *bool {
	p := flag.Bool(name, value, updateUsage(usage, required))
	if required {
		requiredFlags[name] = struct{}{}
	}
	return p
}

func String(name string, value string, usage string, required bool) *string {
	p := flag.String(name, value, updateUsage(usage, required))
	if required {
		requiredFlags[name] = struct{}{}
	}
	return p
}

func visited() map[string]struct{} {
	m := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) {
		m[f.Name] = struct{}{}
	})
	return m
}

// Build description printed before the flag defaults.
func WithDescriptionBuilder(f func(printlnf func(v string, args ...any))) {
	descriptionBuilder = f
}

func WithExtra(s string) {
	extra = s
}

func Parse() {
	if descriptionBuilder != nil || extra != "" {
		flag.Usage = func() {
			w := flag.CommandLine.Output()
			if descriptionBuilder != nil {
				fmt.Fprintln(w)
				descriptionBuilder(func(v string, args ...any) {
					fmt.Fprintf(w, v+"\n", args...)
				})
			}
			fmt.Fprintf(w, "Usage of %s:\n", os.Args[0])
			flag.PrintDefaults()
			if extra != "" {
				fmt.Fprintf(w, "\n%s\n", extra)
			}
		}
	}

	flag.Parse()
	if missing := MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(flag.CommandLine.Output(), "Arg '%v' is required \n\n", missing[0])
		flag.Usage()
		os.Exit(2)
	}
}

// Names of required flags that are not set.
func MissingRequired() []string {
	m := visited()
	var missing []string
	for name := range requiredFlags {
		if _, ok := m[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
