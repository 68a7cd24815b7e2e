package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/school"
)

// addSuper creates a super admin, seeding a default district, school and
// scoped admin alongside it the first time around.
func (cli *commandLine) addSuper(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.admSvc.GetByEmail(ctx, email); err == nil {
		return admin.ErrEmailExists
	} else if err != admin.ErrNotFound {
		return err
	}

	// services are gated on a super actor; bootstrap with a synthetic one
	seeder := core.Actor{Role: core.RoleSuper}

	super, err := cli.admSvc.Create(ctx, seeder, admin.NewAdmin{
		Name:     "Super Admin",
		Email:    email,
		Password: pwd,
		Role:     core.RoleSuper,
	})
	if err != nil {
		return err
	}

	d, err := cli.schSvc.CreateDistrict(ctx, super.Actor(), school.NewDistrict{Name: "Default District", City: "City", State: "ST"})
	if err != nil {
		return err
	}
	s, err := cli.schSvc.CreateSchool(ctx, super.Actor(), school.NewSchool{Name: "Default School", DistrictID: d.ID})
	if err != nil {
		return err
	}
	adm, err := cli.admSvc.Create(ctx, super.Actor(), admin.NewAdmin{
		Name:     "Default Admin",
		Email:    "admin@example.com",
		Password: core.Conf.SeedSuperPassword,
		Role:     core.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if err = cli.admSvc.AssignSchools(ctx, super.Actor(), adm.ID, []int{s.ID}); err != nil {
		return err
	}

	fmt.Printf("created super admin %s (id=%d)\n", super.Email, super.ID)
	return nil
}
