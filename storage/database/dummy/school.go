package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateDistrict(ctx context.Context, d school.District) (school.District, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	d.ID = repo.db.nextPK("districts")
	repo.db.districts[d.ID] = &d
	return d, nil
}

func (repo *schoolRepository) QueryAllDistricts(ctx context.Context) ([]school.District, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	districts := make([]school.District, 0, len(repo.db.districts))
	for _, d := range repo.db.districts {
		districts = append(districts, *d)
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i].Name < districts[j].Name })
	return districts, nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, s school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = repo.db.nextPK("schools")
	repo.db.schools[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id int) (school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.schools[id]; ok {
		return *s, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.querySchools(), nil
}

// querySchools must be called with at least the read lock held.
func (db *DB) querySchools() []school.School {
	schools := make([]school.School, 0, len(db.schools))
	for _, s := range db.schools {
		schools = append(schools, *s)
	}
	sort.Slice(schools, func(i, j int) bool {
		di, dj := db.districtName(schools[i].DistrictID), db.districtName(schools[j].DistrictID)
		if di != dj {
			return di < dj
		}
		return schools[i].Name < schools[j].Name
	})
	return schools
}

func (db *DB) districtName(id int) string {
	if d, ok := db.districts[id]; ok {
		return strings.ToLower(d.Name)
	}
	return ""
}
