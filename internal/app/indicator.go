package app

import (
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/engine/renderer"
)

const appTitle = "panoview"

type titler interface {
	SetTitle(title string)
}

type statusSetter interface {
	SetStatus(s renderer.Status)
}

// statusIndicator shows load progress in the window title and as a colored
// bar drawn by the renderer.
type statusIndicator struct {
	window  titler
	status  statusSetter
	current func() string
}

func (s *statusIndicator) ShowLoading() {
	s.status.SetStatus(renderer.StatusLoading)
	if name := s.name(); name != "" {
		s.window.SetTitle(appTitle + " - loading " + name)
		return
	}
	s.window.SetTitle(appTitle + " - loading")
}

func (s *statusIndicator) ShowError(msg string) {
	s.status.SetStatus(renderer.StatusError)
	s.window.SetTitle(appTitle + " - " + msg)
}

func (s *statusIndicator) Hide() {
	s.status.SetStatus(renderer.StatusNone)
	if name := s.name(); name != "" {
		s.window.SetTitle(appTitle + " - " + name)
		return
	}
	s.window.SetTitle(appTitle)
}

func (s *statusIndicator) name() string {
	if s.current == nil {
		return ""
	}
	uri := s.current()
	if uri == "" {
		return ""
	}
	return filepath.Base(uri)
}

type fullscreener interface {
	Fullscreen() bool
	SetFullscreen(on bool) error
}

// fullscreenToggle is the desktop form of immersive viewing: it flips the
// window between fullscreen and windowed.
type fullscreenToggle struct {
	window fullscreener
	log    *zap.Logger
}

func (f *fullscreenToggle) Enter() error {
	on := !f.window.Fullscreen()
	if err := f.window.SetFullscreen(on); err != nil {
		return err
	}
	f.log.Debug("Immersive mode toggled", zap.Bool("fullscreen", on))
	return nil
}

// closeAll runs every teardown step and combines their errors.
func closeAll(steps ...func() error) error {
	var err error
	for _, step := range steps {
		err = multierr.Append(err, step())
	}
	return err
}
