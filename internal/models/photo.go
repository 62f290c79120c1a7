package models

import "time"

// Photo is the stored metadata of one saved selfie.
type Photo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Path      string    `json:"caminho"`
	Favorite  bool      `json:"favorita"`
	CreatedAt time.Time `json:"data_criacao"`
}
