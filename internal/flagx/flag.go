// Package flagx lets several components parse their own flags from one
// command line without tripping over each other's unknown flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Spec maps an allowed flag name (e.g. "-a", "--config") to whether the flag
// consumes the following argument as its value. Boolean flags map to false.
type Spec map[string]bool

// Filter returns the subset of args that belongs to the flags named in spec,
// keeping their values and the original order. Both "-f value" and
// "-f=value" forms are recognised.
func Filter(args []string, spec Spec) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := spec[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		takesValue, ok := spec[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// FilterArgs is Filter for flags that all take a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	spec := make(Spec, len(allowedFlags))
	for _, f := range allowedFlags {
		spec[f] = true
	}
	return Filter(args, spec)
}

// ConfigPath extracts the JSON config file path given via -c or -config.
// When both are present the last one wins; an empty string means none.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
