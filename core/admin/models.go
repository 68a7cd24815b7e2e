package admin

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         core.Role `json:"role"`
	PasswordHash []byte    `json:"-"`
}

// comparePasswordFunc is the pluggable credential equality predicate; mockable.
var comparePasswordFunc = bcrypt.CompareHashAndPassword

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return comparePasswordFunc(a.PasswordHash, []byte(pwd))
}

func (a *Admin) Actor() core.Actor {
	return core.Actor{ID: a.ID, Role: a.Role}
}

// NewAdmin contains information needed to create a new Admin.
type NewAdmin struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required"`
	Role     core.Role `json:"role"`
}

func (na *NewAdmin) Validate() error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	if na.Role == 0 {
		na.Role = core.RoleAdmin
	}
	return core.Validate.Struct(na)
}
