package models

import "time"

// Topic is a platform forum thread, unrelated to league chat
type Topic struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	AuthorID   string     `json:"author_id,omitempty"`
	ReplyCount int        `json:"reply_count"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type CreateTopicRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
}
