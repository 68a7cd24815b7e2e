package testutil

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
)

func Super() core.Actor {
	return core.Actor{Role: core.RoleSuper}
}

func CreateDistrict(t *testing.T, repo school.Repository, name string) school.District {
	t.Helper()
	d, err := repo.CreateDistrict(context.Background(), school.District{Name: name, City: "City", State: "ST"})
	if err != nil {
		t.Fatalf("CreateDistrict() failed: %v", err)
	}
	return d
}

func CreateSchool(t *testing.T, repo school.Repository, name string, districtID int) school.School {
	t.Helper()
	s, err := repo.CreateSchool(context.Background(), school.School{Name: name, DistrictID: districtID})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return s
}

func CreateAdmin(t *testing.T, repo admin.Repository, name, email, pwd string, role core.Role) admin.Admin {
	t.Helper()
	adm := admin.Admin{Name: name, Email: email, Role: role}
	if pwd != "" {
		if err := adm.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAdmin() failed: %v", err)
		}
	}
	adm, err := repo.CreateAdmin(context.Background(), adm)
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return adm
}

func CreateLearner(t *testing.T, repo learner.Repository, first, last, code string) learner.Learner {
	t.Helper()
	l, err := repo.UpsertLearner(context.Background(), learner.Learner{FirstName: first, LastName: last, Code: code})
	if err != nil {
		t.Fatalf("CreateLearner() failed: %v", err)
	}
	return l
}

func CreateCourse(t *testing.T, repo course.Repository, title string) course.Course {
	t.Helper()
	c, err := repo.CreateCourse(context.Background(), course.Course{Title: title, Active: true})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func ImportCourse(t *testing.T, repo course.Repository, title string, assignments ...course.Assignment) course.Course {
	t.Helper()
	c, err := repo.ImportCourse(context.Background(), course.Course{Title: title, Active: true}, assignments)
	if err != nil {
		t.Fatalf("ImportCourse() failed: %v", err)
	}
	return c
}

func AssignAdminSchools(t *testing.T, repo admin.Repository, adminID int, schoolIDs ...int) {
	t.Helper()
	if err := repo.ReplaceAdminSchools(context.Background(), adminID, schoolIDs); err != nil {
		t.Fatalf("AssignAdminSchools() failed: %v", err)
	}
}

func AssignLearnerSchools(t *testing.T, repo learner.Repository, learnerID int, schoolIDs ...int) {
	t.Helper()
	if err := repo.ReplaceLearnerSchools(context.Background(), learnerID, schoolIDs); err != nil {
		t.Fatalf("AssignLearnerSchools() failed: %v", err)
	}
}

func EnrollLearner(t *testing.T, repo learner.Repository, learnerID, courseID int) {
	t.Helper()
	if err := repo.EnrollCourse(context.Background(), learnerID, courseID); err != nil {
		t.Fatalf("EnrollLearner() failed: %v", err)
	}
}
