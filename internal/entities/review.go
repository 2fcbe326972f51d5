package entities

import "time"

type ReviewRequest struct {
	Type     string `json:"type"`
	TargetID int    `json:"target_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type ReviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	ID             int       `json:"id"`
	Type           string    `json:"type"`
	TargetID       int       `json:"target_id"`
	AuthorID       int       `json:"author_id"`
	Rating         int       `json:"rating"`
	RatingCategory string    `json:"rating_category"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
