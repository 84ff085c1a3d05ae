package domain

import "time"

type Review struct {
	ID         int32     `json:"id"`
	ModelID    int32     `json:"model_id"`
	CustomerID int32     `json:"klient_id"`
	Rating     int32     `json:"ocena"`
	Comment    string    `json:"komentarz"`
	CreatedAt  time.Time `json:"data_wystawienia"`
}

// ReviewView is a review with its author's first name.
type ReviewView struct {
	Review
	Author string `json:"autor"`
}

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return Validationf("rating must be between 1 and 5")
	}
	return nil
}
