package model

import "time"

// Project groups tasks. A project is "completed" when every task that
// references it is closed; that state is derived, never stored.
type Project struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Colour string `json:"colour,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
