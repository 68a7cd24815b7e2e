package school

import "github.com/trezcool/darasa/core"

type District struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

type School struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	DistrictID int    `json:"district_id"`
}

// NewDistrict contains information needed to create a new District.
type NewDistrict struct {
	Name  string `json:"name" validate:"required"`
	City  string `json:"city" validate:"required"`
	State string `json:"state" validate:"required"`
}

func (nd *NewDistrict) Validate() error {
	nd.Name = core.CleanString(nd.Name)
	nd.City = core.CleanString(nd.City)
	nd.State = core.CleanString(nd.State)
	return core.Validate.Struct(nd)
}

// NewSchool contains information needed to create a new School.
type NewSchool struct {
	Name       string `json:"name" validate:"required"`
	DistrictID int    `json:"district_id" validate:"required"`
}

func (ns *NewSchool) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}
