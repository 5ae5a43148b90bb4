package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/xwb/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.CatalogSource = (*Store)(nil)
	_ driven.CatalogSink   = (*Store)(nil)
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "catalog.db"

const metaSyncedAt = "synced_at"

// goose keeps its configuration in package globals.
var migrateMu sync.Mutex

// Store is a SQLite-backed catalog snapshot.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the catalog database in dataDir.
// If dataDir is empty, defaults to ~/.xwb/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".xwb", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Name identifies the source in logs and errors.
func (s *Store) Name() string {
	return "sqlite:" + s.path
}

func (s *Store) migrate() error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	return goose.Up(s.db, ".")
}

// SyncedAt returns when the snapshot was last written.
// Returns domain.ErrNotFound if no snapshot has been saved.
func (s *Store) SyncedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM catalog_meta WHERE key = ?", metaSyncedAt).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, domain.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading sync time: %w", err)
	}
	return time.Parse(time.RFC3339Nano, value)
}

// SaveCatalog replaces the stored snapshot with data.
func (s *Store) SaveCatalog(ctx context.Context, data *domain.CatalogData) error {
	if data == nil {
		return fmt.Errorf("%w: catalog data is required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"catalog_conditions", "catalog_pilots", "catalog_ships", "catalog_upgrades"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertConditions(ctx, tx, data.Conditions); err != nil {
		return err
	}
	if err := insertPilots(ctx, tx, data.Pilots); err != nil {
		return err
	}
	if err := insertShips(ctx, tx, data.Ships); err != nil {
		return err
	}
	if err := insertUpgrades(ctx, tx, data.Upgrades); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaSyncedAt, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}

	logger.Debug("Saved catalog snapshot to %s", s.path)
	return nil
}

// Load reads the stored snapshot in its original record order.
func (s *Store) Load(ctx context.Context) (*domain.CatalogData, error) {
	if _, err := s.SyncedAt(ctx); err != nil {
		return nil, s.loadError("catalog", err)
	}

	data := &domain.CatalogData{}
	var err error

	if data.Conditions, err = s.loadConditions(ctx); err != nil {
		return nil, s.loadError("conditions", err)
	}
	if data.Pilots, err = s.loadPilots(ctx); err != nil {
		return nil, s.loadError("pilots", err)
	}
	if data.Ships, err = s.loadShips(ctx); err != nil {
		return nil, s.loadError("ships", err)
	}
	if data.Upgrades, err = s.loadUpgrades(ctx); err != nil {
		return nil, s.loadError("upgrades", err)
	}

	return data, nil
}

func (s *Store) loadError(collection string, err error) error {
	return &domain.DataLoadError{Collection: collection, Source: s.path, Err: err}
}

// ==================== Writers ====================

func insertConditions(ctx context.Context, tx *sql.Tx, records []domain.ConditionRecord) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO catalog_conditions (seq, xws, record_id, name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing conditions insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.XWS, string(r.ID), r.Name); err != nil {
			return fmt.Errorf("inserting condition %s: %w", r.XWS, err)
		}
	}
	return nil
}

func insertPilots(ctx context.Context, tx *sql.Tx, records []domain.PilotRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_pilots (seq, xws, record_id, name, ship, faction, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing pilots insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.XWS, string(r.ID), r.Name, r.Ship, r.Faction, int(r.Points)); err != nil {
			return fmt.Errorf("inserting pilot %s: %w", r.XWS, err)
		}
	}
	return nil
}

func insertShips(ctx context.Context, tx *sql.Tx, records []domain.ShipRecord) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO catalog_ships (seq, xws, record_id, name, factions) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing ships insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		factions, err := json.Marshal(r.Faction)
		if err != nil {
			return fmt.Errorf("marshalling factions for %s: %w", r.XWS, err)
		}
		if _, err := stmt.ExecContext(ctx, i, r.XWS, string(r.ID), r.Name, string(factions)); err != nil {
			return fmt.Errorf("inserting ship %s: %w", r.XWS, err)
		}
	}
	return nil
}

func insertUpgrades(ctx context.Context, tx *sql.Tx, records []domain.UpgradeRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_upgrades (seq, xws, record_id, name, slot, points)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing upgrades insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.XWS, string(r.ID), r.Name, r.Slot, int(r.Points)); err != nil {
			return fmt.Errorf("inserting upgrade %s: %w", r.XWS, err)
		}
	}
	return nil
}

// ==================== Readers ====================

func (s *Store) loadConditions(ctx context.Context) ([]domain.ConditionRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT xws, record_id, name FROM catalog_conditions ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ConditionRecord
	for rows.Next() {
		var r domain.ConditionRecord
		var id string
		if err := rows.Scan(&r.XWS, &id, &r.Name); err != nil {
			return nil, err
		}
		r.ID = domain.RecordID(id)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) loadPilots(ctx context.Context) ([]domain.PilotRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT xws, record_id, name, ship, faction, points FROM catalog_pilots ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PilotRecord
	for rows.Next() {
		var r domain.PilotRecord
		var id string
		var points int
		if err := rows.Scan(&r.XWS, &id, &r.Name, &r.Ship, &r.Faction, &points); err != nil {
			return nil, err
		}
		r.ID = domain.RecordID(id)
		r.Points = domain.Points(points)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) loadShips(ctx context.Context) ([]domain.ShipRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT xws, record_id, name, factions FROM catalog_ships ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ShipRecord
	for rows.Next() {
		var r domain.ShipRecord
		var id, factions string
		if err := rows.Scan(&r.XWS, &id, &r.Name, &factions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(factions), &r.Faction); err != nil {
			return nil, fmt.Errorf("unmarshalling factions for %s: %w", r.XWS, err)
		}
		r.ID = domain.RecordID(id)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) loadUpgrades(ctx context.Context) ([]domain.UpgradeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT xws, record_id, name, slot, points FROM catalog_upgrades ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UpgradeRecord
	for rows.Next() {
		var r domain.UpgradeRecord
		var id string
		var points int
		if err := rows.Scan(&r.XWS, &id, &r.Name, &r.Slot, &points); err != nil {
			return nil, err
		}
		r.ID = domain.RecordID(id)
		r.Points = domain.Points(points)
		records = append(records, r)
	}
	return records, rows.Err()
}

// gooseLogger routes migration output to the verbose logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Debug("migrations: %s", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Warn("migrations: %s", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
