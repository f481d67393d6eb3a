// Package flagx lets several components parse their own flags out of the
// same os.Args without tripping over each other's definitions.
package flagx

import (
	"flag"
	"strings"
)

// Owned lists the flags one component parses. Value flags consume the next
// argument unless it looks like another flag; Bool flags never do.
type Owned struct {
	Value []string
	Bool  []string
}

// FilterArgs returns the subset of args that belongs to the owned flags,
// keeping their order. Both "-f value" and "-f=value" forms are recognised,
// and a double-dash prefix is treated the same as a single dash.
func FilterArgs(args []string, owned Owned) []string {
	kinds := make(map[string]bool, len(owned.Value)+len(owned.Bool))
	for _, f := range owned.Value {
		kinds[normalize(f)] = true
	}
	for _, f := range owned.Bool {
		kinds[normalize(f)] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		takesValue, ok := kinds[normalize(name)]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)

		if hasValue || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

func normalize(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

// ConfigPath extracts the JSON config file path given via -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, Owned{Value: []string{"-c", "-config"}}))

	return path
}
