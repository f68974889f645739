package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values mean "not set".
type Flags struct {
	Config       string
	Debug        bool
	Windowed     bool
	Fullscreen   bool
	Width        int
	Height       int
	Dir          string
	FOV          float64
	NoThumbnails bool
	LogFile      string
}

// BindFlags registers the config overrides on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVarP(&f.Config, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.StringVarP(&f.Dir, "dir", "d", "", "Directory to scan for panoramas")
	fs.Float64Var(&f.FOV, "fov", 0, "Initial field of view in degrees")
	fs.BoolVar(&f.NoThumbnails, "no-thumbnails", false, "Hide the thumbnail strip")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
	if f.Dir != "" {
		cfg.Viewer.PhotoDir = f.Dir
		cfg.Viewer.Photos = nil
	}
	if f.FOV > 0 {
		cfg.Viewer.FOV = f.FOV
	}
	if f.NoThumbnails {
		cfg.Viewer.Thumbnails = false
	}
}
