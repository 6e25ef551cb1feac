package model

import "time"

// Category groups tours (e.g. "Wildlife", "Hiking").
type Category struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    Description *string   `json:"description"`
    Icon        *string   `json:"icon"`
    CreatedAt   time.Time `json:"created_at"`
}
