package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/admin"
)

type adminRepository struct {
	db *DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *DB) *adminRepository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedAdmins ...admin.Admin) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, adm := range repo.db.admins {
		if adm.Email == email && !isExcluded(adm.ID, excludedAdmins) {
			return admin.ErrEmailExists
		}
	}
	return nil
}

func isExcluded(id int, excluded []admin.Admin) bool {
	for _, adm := range excluded {
		if adm.ID == id {
			return true
		}
	}
	return false
}

func (repo *adminRepository) CreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	adm.ID = repo.db.nextPK("admins")
	repo.db.admins[adm.ID] = &adm
	return adm, nil
}

func (repo *adminRepository) GetAdminByID(ctx context.Context, id int) (admin.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if adm, ok := repo.db.admins[id]; ok {
		return *adm, nil
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *adminRepository) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, adm := range repo.db.admins {
		if adm.Email == email {
			return *adm, nil
		}
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *adminRepository) QueryAllAdmins(ctx context.Context) ([]admin.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	admins := make([]admin.Admin, 0, len(repo.db.admins))
	for _, adm := range repo.db.admins {
		admins = append(admins, *adm)
	}
	sort.Slice(admins, func(i, j int) bool {
		if admins[i].Role != admins[j].Role {
			return admins[i].Role > admins[j].Role
		}
		return admins[i].Name < admins[j].Name
	})
	return admins, nil
}

func (repo *adminRepository) ReplaceAdminSchools(ctx context.Context, adminID int, schoolIDs []int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	set := make(idSet, len(schoolIDs))
	for _, sid := range schoolIDs {
		set.add(sid)
	}
	repo.db.adminSchools[adminID] = set
	return nil
}

func (repo *adminRepository) QueryAdminSchoolIDs(ctx context.Context, adminID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.adminSchools[adminID].sorted(), nil
}

func (repo *adminRepository) DeleteAdmin(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.admins[id]; !ok {
		return admin.ErrNotFound
	}
	delete(repo.db.admins, id)
	delete(repo.db.adminSchools, id)
	return nil
}
