package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/mysql"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

// Database persists the pending transfer set so that watches can be resumed after a restart.
type Database interface {
	Init() error
	Close() error

	SavePendingTransfer(transfer *types.PendingTransfer) error
	DeletePendingTransfer(chainId uint64, hash common.Hash) error
	LoadPendingTransfers() ([]*types.PendingTransfer, error)
}

type DefaultDatabase struct {
	cfg *config.Relayer
	db  *sql.DB
}

type dbLogger struct {
}

func (loggger *dbLogger) Printf(format string, v ...interface{}) {
	log.Verbosef(format, v...)
}

func (loggger *dbLogger) Verbose() bool {
	return true
}

func NewDb(cfg *config.Relayer) Database {
	return &DefaultDatabase{
		cfg: cfg,
	}
}

func (d *DefaultDatabase) Connect() error {
	if d.cfg.InMemory {
		database, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			return err
		}
		// Every connection of an in-memory sqlite db is a different db.
		database.SetMaxOpenConns(1)

		d.db = database
		log.Info("In-memory db is created")
		return nil
	}

	host := d.cfg.DbHost
	if host == "" {
		return fmt.Errorf("DB host cannot be empty")
	}

	port := d.cfg.DbPort
	username := d.cfg.DbUsername
	password := d.cfg.DbPassword
	schema := d.cfg.DbSchema

	// Connect to the db
	url := fmt.Sprintf("%s:%s@tcp(%s:%d)/", username, password, host, port)
	database, err := sql.Open("mysql", url)
	if err != nil {
		return err
	}
	_, err = database.Exec("CREATE DATABASE IF NOT EXISTS " + schema)
	if err != nil {
		return err
	}
	database.Close()

	database, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", username, password, host, port, schema))
	if err != nil {
		return err
	}

	d.db = database
	log.Info("Db is connected successfully")
	return nil
}

func (d *DefaultDatabase) DoMigration() error {
	if d.cfg.InMemory {
		return d.doInMemoryMigration()
	}

	dir, err := MigrationsTempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	driver, err := mysql.WithInstance(d.db, &mysql.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+dir,
		"mysql",
		driver,
	)
	if err != nil {
		return err
	}

	m.Log = &dbLogger{}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// doInMemoryMigration applies the up migrations directly. golang-migrate is only used with
// mysql.
func (d *DefaultDatabase) doInMemoryMigration() error {
	files, err := upMigrations()
	if err != nil {
		return err
	}

	for _, file := range files {
		content, err := migrationsFS.ReadFile("migrations/" + file)
		if err != nil {
			return err
		}

		if _, err := d.db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	return nil
}

func (d *DefaultDatabase) Init() error {
	err := d.Connect()
	if err != nil {
		log.Error("Failed to connect to DB. Err =", err)
		return err
	}

	return d.DoMigration()
}

func (d *DefaultDatabase) Close() error {
	if d.db == nil {
		return nil
	}

	return d.db.Close()
}

func (d *DefaultDatabase) SavePendingTransfer(transfer *types.PendingTransfer) error {
	var payload []byte
	if transfer.Transfer != nil {
		var err error
		payload, err = json.Marshal(transfer.Transfer)
		if err != nil {
			return err
		}
	}

	_, err := d.db.Exec("REPLACE INTO pending_transfers (chain_id, tx_hash, seq, transfer) VALUES (?, ?, ?, ?)",
		int64(transfer.ChainId), transfer.Hash.Hex(), int64(transfer.Seq), payload)
	if err != nil {
		log.Errorf("Cannot save pending transfer %s on chain %d, err = %v", transfer.Hash.Hex(), transfer.ChainId, err)
	}

	return err
}

func (d *DefaultDatabase) DeletePendingTransfer(chainId uint64, hash common.Hash) error {
	_, err := d.db.Exec("DELETE FROM pending_transfers WHERE chain_id = ? AND tx_hash = ?", int64(chainId), hash.Hex())
	if err != nil {
		log.Errorf("Cannot delete pending transfer %s on chain %d, err = %v", hash.Hex(), chainId, err)
	}

	return err
}

func (d *DefaultDatabase) LoadPendingTransfers() ([]*types.PendingTransfer, error) {
	rows, err := d.db.Query("SELECT chain_id, tx_hash, seq, transfer FROM pending_transfers ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*types.PendingTransfer, 0)
	for rows.Next() {
		var (
			chainId, seq int64
			hash         string
			payload      []byte
		)
		if err := rows.Scan(&chainId, &hash, &seq, &payload); err != nil {
			return nil, err
		}

		transfer := &types.PendingTransfer{
			ChainId: uint64(chainId),
			Hash:    common.HexToHash(hash),
			Seq:     uint64(seq),
		}

		if len(payload) > 0 {
			transfer.Transfer = &types.BridgeTransaction{}
			if err := json.Unmarshal(payload, transfer.Transfer); err != nil {
				return nil, fmt.Errorf("invalid payload of pending transfer %s: %w", hash, err)
			}
		}

		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}
