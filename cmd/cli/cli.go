package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gospend/internal/infrastructure/config"
	"github.com/iho/gospend/internal/infrastructure/idgen"
	"github.com/iho/gospend/internal/infrastructure/logger"
	"github.com/iho/gospend/internal/infrastructure/persister"
	"github.com/iho/gospend/internal/infrastructure/storage"
	"github.com/iho/gospend/internal/usecase"
)

type cli struct {
	out        io.Writer
	dbPath     string
	timezone   string
	logLevel   string
	jsonOutput bool
}

func (c *cli) logger() zerolog.Logger {
	return logger.New(logger.Config{
		Level:  c.logLevel,
		Format: "console",
		Output: os.Stderr,
	})
}

func (c *cli) location() (*time.Location, error) {
	cfg := config.Config{Timezone: c.timezone}
	return cfg.Location()
}

func (c *cli) openStore(ctx context.Context, log zerolog.Logger) (*storage.Backend, error) {
	return storage.Open(ctx, storage.Config{
		Backend:    config.BackendSQLite,
		SQLitePath: c.dbPath,
	}, log)
}

// withSession restores the ledger, runs fn and closes the session, waiting
// for its final save.
func (c *cli) withSession(ctx context.Context, fn func(s *usecase.Session) error) error {
	log := c.logger()

	loc, err := c.location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	backend, err := c.openStore(ctx, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	p := persister.New(persister.Config{
		Store:  backend.Store,
		Logger: log,
	})

	persistCtx, stopPersister := context.WithCancel(context.Background())
	persistDone := make(chan struct{})
	go func() {
		defer close(persistDone)
		_ = p.Run(persistCtx)
	}()
	defer func() {
		stopPersister()
		<-persistDone
	}()

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Store:         backend.Store,
		Saver:         p,
		IDGen:         idgen.NewULIDGenerator(),
		Logger:        log,
		Location:      loc,
		RestoreOnOpen: true,
	})

	session, err := uc.Open(ctx)
	if err != nil {
		return err
	}

	fnErr := fn(session)

	closeCtx, cancel := context.WithTimeout(context.Background(), usecase.DefaultCloseTimeout)
	defer cancel()

	return errors.Join(fnErr, session.Close(closeCtx))
}

func (c *cli) withCredentials(ctx context.Context, fn func(uc *usecase.CredentialUseCase) error) error {
	log := c.logger()

	backend, err := c.openStore(ctx, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(usecase.NewCredentialUseCase(backend.Store, log))
}
