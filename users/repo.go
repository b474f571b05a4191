package users

// AccountRepo stores the accounts served by the in-process API.
type AccountRepo interface {
	Upsert(account *Account) error
	GetByUsername(username string) (*Account, error)
	GetByID(id int64) (*Account, error)
	GetPerson(id int64) (*Person, error)
	UpdateUser(user AuthUser) (*AuthUser, error)
	UpdatePerson(person Person) (*Person, error)
	SetBlocked(username string, blocked bool) error
}
