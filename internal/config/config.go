// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/panoview/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Viewer      ViewerConfig      `yaml:"viewer"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"` // Multisample count, 0 disables antialiasing
}

// ViewerConfig holds the photo set and interaction tuning.
type ViewerConfig struct {
	Photos        []string      `yaml:"photos"`    // Ordered photo paths or URLs
	PhotoDir      string        `yaml:"photo_dir"` // Directory scanned when Photos is empty
	Thumbnails    bool          `yaml:"thumbnails"`
	ThumbnailSize int           `yaml:"thumbnail_size"` // Pixels
	FOV           float64       `yaml:"fov"`            // Initial vertical field of view, degrees
	MinFOV        float64       `yaml:"min_fov"`
	MaxFOV        float64       `yaml:"max_fov"`
	WheelSpeed    float64       `yaml:"wheel_speed"` // Degrees per wheel delta unit
	DampingFactor float64       `yaml:"damping_factor"`
	RotateSpeed   float64       `yaml:"rotate_speed"` // Negative inverts drag direction
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	MaxTextureDim int           `yaml:"max_texture_dim"` // 0 uses the GPU limit
	CacheMB       int           `yaml:"cache_mb"`        // Download cache for remote photos, 0 disables
}

// ScreenshotsConfig holds screenshot capture settings.
type ScreenshotsConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Viewer: ViewerConfig{
			Thumbnails:    true,
			ThumbnailSize: 80,
			FOV:           75,
			MinFOV:        30,
			MaxFOV:        100,
			WheelSpeed:    0.05,
			DampingFactor: 0.1,
			RotateSpeed:   -0.25,
			FetchTimeout:  30 * time.Second,
			CacheMB:       128,
		},
		Screenshots: ScreenshotsConfig{
			Dir:    "screenshots",
			Prefix: "panoview",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.MSAA < 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: msaa %d must not be negative", c.Graphics.MSAA))
	}

	v := c.Viewer
	if v.MinFOV <= 0 || v.MaxFOV >= 180 || v.MinFOV >= v.MaxFOV {
		err = multierr.Append(err, fmt.Errorf("viewer: fov range [%g, %g] must satisfy 0 < min < max < 180", v.MinFOV, v.MaxFOV))
	} else if v.FOV < v.MinFOV || v.FOV > v.MaxFOV {
		err = multierr.Append(err, fmt.Errorf("viewer: fov %g outside [%g, %g]", v.FOV, v.MinFOV, v.MaxFOV))
	}
	if v.WheelSpeed <= 0 {
		err = multierr.Append(err, fmt.Errorf("viewer: wheel_speed %g must be positive", v.WheelSpeed))
	}
	if v.DampingFactor <= 0 || v.DampingFactor > 1 {
		err = multierr.Append(err, fmt.Errorf("viewer: damping_factor %g must be in (0, 1]", v.DampingFactor))
	}
	if v.RotateSpeed == 0 {
		err = multierr.Append(err, errors.New("viewer: rotate_speed must not be zero"))
	}
	if v.Thumbnails && v.ThumbnailSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("viewer: thumbnail_size %d must be positive", v.ThumbnailSize))
	}
	if v.CacheMB < 0 {
		err = multierr.Append(err, fmt.Errorf("viewer: cache_mb %d must not be negative", v.CacheMB))
	}
	if v.FetchTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("viewer: fetch_timeout %s must not be negative", v.FetchTimeout))
	}

	if _, lerr := logger.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging: %w", lerr))
	}

	return err
}
