package commands

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/ledger"
	"github.com/tallybook-dev/tallybook/internal/logger"
)

// workspace bundles the open config, ledger and logger for one command run.
type workspace struct {
	dir   string
	cfg   *config.Config
	db    *sql.DB
	store *ledger.Store
	log   zerolog.Logger
}

func openWorkspace(dir string) (*workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("not a tallybook workspace (run `tallybook init`?): %w", err)
	}

	dbPath := cfg.Ledger.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}
	db, err := ledger.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &workspace{
		dir:   absDir,
		cfg:   cfg,
		db:    db,
		store: ledger.NewStore(db),
		log:   logger.New(cfg.Logging.Level),
	}, nil
}

func (w *workspace) Close() {
	_ = w.db.Close()
}

// auditLogPath resolves the configured import log location.
func (w *workspace) auditLogPath() string {
	p := w.cfg.Import.AuditLog
	if !filepath.IsAbs(p) {
		p = filepath.Join(w.dir, p)
	}
	return p
}
