package config

import (
	"flag"
	"strconv"
)

// Flags holds the command-line settings that override the config file.
type Flags struct {
	ConfigPath string

	MDLToMDX bool
	MDXToMDL bool
	Quiet    bool
	Verbose  count

	fs          *flag.FlagSet
	precision   int
	indent      string
	lineEnding  string
	forceRGB    bool
	overwrite   bool
	flat        bool
	stopOnError bool
	maxDepth    int
	verify      bool
	workers     int
	logFile     string
}

// count is a flag that counts its occurrences.
type count int

func (c *count) String() string   { return strconv.Itoa(int(*c)) }
func (c *count) Set(string) error { *c++; return nil }
func (c *count) IsBoolFlag() bool { return true }

// RegisterFlags defines the converter flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	fl := &Flags{fs: fs}
	fs.StringVar(&fl.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&fl.MDLToMDX, "mdl2x", false, "Only convert .mdl files to .mdx")
	fs.BoolVar(&fl.MDXToMDL, "mdx2l", false, "Only convert .mdx files to .mdl")
	fs.BoolVar(&fl.Quiet, "q", false, "Only log warnings and errors")
	fs.Var(&fl.Verbose, "v", "Log more detail; may be repeated")
	fs.IntVar(&fl.precision, "precision", 0, "Fractional digits of written floats")
	fs.StringVar(&fl.indent, "indent", "", `Indent of written text: "tab", "tabN", "N" or "Nspaces"`)
	fs.StringVar(&fl.lineEnding, "eol", "", `Line ending of written text: "lf", "cr" or "crlf"`)
	fs.BoolVar(&fl.forceRGB, "rgb", false, "Write geoset animation colors in RGB order")
	fs.BoolVar(&fl.overwrite, "f", false, "Overwrite existing outputs")
	fs.BoolVar(&fl.flat, "F", false, "Write all outputs directly into the output directory")
	fs.BoolVar(&fl.stopOnError, "E", false, "Stop at the first error")
	fs.IntVar(&fl.maxDepth, "d", 0, "Maximum directory depth")
	fs.BoolVar(&fl.verify, "verify", false, "Read back each output and compare digests")
	fs.IntVar(&fl.workers, "j", 0, "Number of workers")
	fs.StringVar(&fl.logFile, "log", "", "Also write logs to a rotated file")
	return fl
}

// apply applies the flags that were set explicitly to cfg.
func (fl *Flags) apply(cfg *Config) {
	if fl.fs == nil {
		return
	}
	fl.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "precision":
			cfg.Format.Precision = fl.precision
		case "indent":
			cfg.Format.Indent = fl.indent
		case "eol":
			cfg.Format.LineEnding = fl.lineEnding
		case "rgb":
			cfg.Format.ForceRGB = fl.forceRGB
		case "f":
			cfg.Convert.Overwrite = fl.overwrite
		case "F":
			cfg.Convert.Flat = fl.flat
		case "E":
			cfg.Convert.StopOnError = fl.stopOnError
		case "d":
			cfg.Convert.MaxDepth = fl.maxDepth
		case "verify":
			cfg.Convert.Verify = fl.verify
		case "j":
			cfg.Convert.Workers = fl.workers
		case "log":
			cfg.Logging.LogFile = fl.logFile
		}
	})
	switch {
	case fl.Verbose > 0:
		cfg.Logging.Level = "debug"
	case fl.Quiet:
		cfg.Logging.Level = "warn"
	}
}
