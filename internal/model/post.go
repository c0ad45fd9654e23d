// Package model defines the data structures used throughout the application.
// The records here are views over rows owned by the hosted data service —
// nothing in this process is the authoritative copy.
package model

import "time"

// Post is a blog post as stored in the hosted `posts` table.
//
// The `json` tags match the column names the data API expects on insert and
// returns on select, so the same struct is used for both directions.
// CreatedAt is set once when the post is created and never updated.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}
