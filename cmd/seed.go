package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/simako/simako-backend/internal/config"
	"github.com/simako/simako-backend/internal/db"
	"github.com/simako/simako-backend/internal/model"
	"github.com/simako/simako-backend/internal/util"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo SIM cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo SIM cards...")

		if err := seedSimCards(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

// seedSimCards inserts deterministic demo SIMs (idempotent on the sim_id
// unique key).
func seedSimCards(dbx *sqlx.DB) error {
	cards := []model.SimCard{
		{SimID: "SIM001", PhoneNumber: "+14155550100", Carrier: strptr("T-Mobile"), IsActive: true},
		{SimID: "SIM002", PhoneNumber: "+14155550101", Carrier: strptr("Vodafone"), IsActive: true},
		{SimID: "SIM003", PhoneNumber: "+14155550102", Carrier: nil, IsActive: false},
	}

	const q = `
INSERT INTO sim_cards
    (id, sim_id, phone_number, carrier, is_active, created_at, last_seen)
VALUES
    (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    phone_number = VALUES(phone_number),
    carrier      = VALUES(carrier),
    is_active    = VALUES(is_active)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, card := range cards {
		if _, err := tx.Exec(q, util.NewID(), card.SimID, card.PhoneNumber, card.Carrier, card.IsActive, now, now); err != nil {
			return fmt.Errorf("insert sim card %q: %w", card.SimID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sim cards: %w", err)
	}
	return nil
}

func strptr(s string) *string { return &s }
