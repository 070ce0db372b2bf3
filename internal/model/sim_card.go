package model

import "time"

// SimCard is the DB entity persisted in the sim_cards table. sim_id is the
// dedup key (UNIQUE), not the store-generated id.
type SimCard struct {
	ID          string    `db:"id"           json:"id"`
	SimID       string    `db:"sim_id"       json:"sim_id"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Carrier     *string   `db:"carrier"      json:"carrier"`
	IsActive    bool      `db:"is_active"    json:"is_active"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	LastSeen    time.Time `db:"last_seen"    json:"last_seen"`
}
