package model

import "time"

type Trainer struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Specializations []string  `json:"specializations"`
	Bio             string    `json:"bio"`
	CreatedAt       time.Time `json:"created_at"`
}
