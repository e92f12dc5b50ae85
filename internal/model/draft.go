// Package model defines the draft and publish result types shared by the store, the publish workflow and the editor.
package model

import "time"

type DraftID string

// Draft is a user-authored title and body awaiting publication. The JSON
// names match the records the browser editor kept in localStorage.
type Draft struct {
	ID        DraftID   `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
