package models

import "time"

type Project struct {
	ID        string     `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required,max=256"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (p *Project) Validate() error {
	return validateStruct(p)
}
