package domain

import "time"

type Profile struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	UpdatedAt time.Time
}
