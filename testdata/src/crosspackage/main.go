package crosspackage

import "crosspackage/models"

func Link(u *models.User, a *models.Account) {
	u.Account = models.Share(a)
	a.Owner = models.Share(u) // want "circular reference detected: crosspackage/models.Account -> crosspackage/models.User -> crosspackage/models.Account"
}

func Name(u *models.User) string {
	return u.Name
}
