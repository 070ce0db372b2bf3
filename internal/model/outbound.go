package model

import "time"

// OutboundRequest describes an SMS queued for sending through the SimakoHost
// gateway. It is echoed back to the caller; nothing is persisted for it.
type OutboundRequest struct {
	SimID     string    `json:"sim_id"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
