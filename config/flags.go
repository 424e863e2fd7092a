package config

import (
	"flag"
	"io"
	"os"
)

// Flags are the command-line options.
type Flags struct {
	ConfigPath string
	EnvFile    string
	Image      string
	Debug      bool
}

// ParseFlags reads args (without the program name). ROI_CONFIG and
// ROI_IMAGE fill in paths not given on the command line.
func ParseFlags(args []string) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("roi-annotator", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.ConfigPath, "config", "", "Config file path")
	fs.StringVar(&f.EnvFile, "env", ".env", "Optional .env file with ROI_* overrides")
	fs.StringVar(&f.Image, "image", "", "Image to open directly (path, data: URI or \"screen\")")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging and runtime stats")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	if f.ConfigPath == "" {
		f.ConfigPath = os.Getenv("ROI_CONFIG")
	}
	if f.ConfigPath == "" {
		f.ConfigPath = DefaultPath()
	}
	if f.Image == "" {
		f.Image = os.Getenv("ROI_IMAGE")
	}
	return f, nil
}
