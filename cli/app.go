package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jesspatton/lazyfs/backend"
	"github.com/jesspatton/lazyfs/config"
	"github.com/jesspatton/lazyfs/engine"
	"github.com/jesspatton/lazyfs/filesystem"
	"github.com/jesspatton/lazyfs/logging"
	"github.com/jesspatton/lazyfs/ui"
	"go.uber.org/zap"
)

// session is everything a run needs, built from the configuration.
type session struct {
	log     *logging.Logger
	backend backend.Backend
	engine  engine.Config
	title   string
}

func newSession(app *appConfig) (*session, error) {
	log, err := logging.New(logging.FileConfig(app.LogFile, app.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	s := &session{log: log}
	switch app.Backend {
	case config.BackendLocal:
		ign := filesystem.NewIgnorer(app.Root, app.Ignore...)
		local, err := backend.NewLocal(app.Root, ign, log.Named("local"))
		if err != nil {
			return nil, err
		}
		s.backend = local
		s.engine = engine.Config{RootPath: local.Root(), Watch: app.Watch, Ignorer: ign}
		s.title = filepath.Base(local.Root())

	case config.BackendMemory:
		nodes, err := filesystem.LoadTree(app.TreeFile)
		if err != nil {
			return nil, err
		}
		s.backend = backend.NewMemory(nodes)
		s.title = filepath.Base(app.TreeFile)

	case config.BackendRemote:
		s.backend = backend.NewRemote(backend.RemoteConfig{
			BaseURL: app.RemoteURL,
			Timeout: app.RemoteTimeout(),
			Retries: app.RemoteRetries,
			Token:   app.RemoteToken,
		}, log.Named("remote"))
		s.title = app.RemoteURL

	default:
		return nil, fmt.Errorf("unknown backend %q", app.Backend)
	}

	s.engine.OpenCommand = app.OpenCommand

	log.Info("session started",
		zap.String("backend", app.Backend),
		zap.String("root", app.Root),
		zap.String("config", app.Source),
	)
	return s, nil
}

func engineOptions(app *appConfig) engine.Options {
	opts := engine.DefaultOptions()
	opts.RootDirectoriesAreDeletable = app.RootDirsDeletable
	return opts
}

func runUI(app *appConfig) error {
	s, err := newSession(app)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	eng := engine.New(s.engine, s.backend, engineOptions(app), s.log.Named("engine"))
	defer eng.Close()

	model := ui.NewModel(eng, ui.Config{
		RootPath:      s.engine.RootPath,
		Title:         s.title,
		ConfirmDelete: app.ConfirmDelete,
	}, s.log.Named("ui"))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
