package app

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string { return strings.Join(*l, ",") }

// Set appends one key=value pair.
func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q: want key=value", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the pairs as a map; later pairs win.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// Config represents the command-line parameters shared by the viewer and the
// batch tools.
type Config struct {
	Variant  string
	Scale    int
	TPS      int
	Seed     int64
	Panel    int
	Interval time.Duration
	Set      KVList
	Verbose  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Variant: "cave", Scale: 6, TPS: 60, Seed: 42, Panel: 220, Interval: 2 * time.Second}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Variant, "variant", c.Variant, "shuffle variant to generate")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed of the first layout")
	fs.IntVar(&c.Panel, "panel", c.Panel, "width of the parameter panel, 0 to hide it")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "slideshow period")
	fs.Var(&c.Set, "set", "parameter override in key=value form (repeatable)")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log failed attempts")
}
