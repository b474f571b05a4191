package fakeuserrepo

import (
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/pkg/errors"
)

var _ users.AccountRepo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts    map[int64]*users.Account
	usernameIds map[string]int64 // lower-cased username to user id
	persons     map[int64]int64  // person id to user id
	nextID      int64
	lock        sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts:    make(map[int64]*users.Account),
		usernameIds: make(map[string]int64),
		persons:     make(map[int64]int64),
	}
}

// Upsert assigns user and person ids when they are zero.
func (ar *FakeAccountRepo) Upsert(account *users.Account) error {
	if strings.TrimSpace(account.User.Username) == "" {
		return errors.New("[FakeAccountRepo.Upsert] username is required")
	}

	ar.lock.Lock()
	defer ar.lock.Unlock()

	if account.User.ID == 0 {
		ar.nextID++
		account.User.ID = ar.nextID
	} else if account.User.ID > ar.nextID {
		ar.nextID = account.User.ID
	}
	if account.Person.ID == 0 {
		account.Person.ID = account.User.ID
	}
	account.User.PersonID = account.Person.ID
	account.User.PersonName = account.Person.FullName()

	ar.accounts[account.User.ID] = account
	ar.usernameIds[strings.ToLower(account.User.Username)] = account.User.ID
	ar.persons[account.Person.ID] = account.User.ID
	return nil
}

func (ar *FakeAccountRepo) GetByUsername(username string) (*users.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.usernameIds[strings.ToLower(username)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ar.accounts[id], nil
}

func (ar *FakeAccountRepo) GetByID(id int64) (*users.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	account, ok := ar.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (ar *FakeAccountRepo) GetPerson(id int64) (*users.Person, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	userID, ok := ar.persons[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	person := ar.accounts[userID].Person
	return &person, nil
}

// UpdateUser replaces the editable fields; the person link cannot be changed.
func (ar *FakeAccountRepo) UpdateUser(user users.AuthUser) (*users.AuthUser, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	account, ok := ar.accounts[user.ID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !strings.EqualFold(account.User.Username, user.Username) {
		delete(ar.usernameIds, strings.ToLower(account.User.Username))
		ar.usernameIds[strings.ToLower(user.Username)] = user.ID
	}
	account.User.Username = user.Username
	account.User.Email = user.Email
	account.User.Asset = user.Asset

	updated := account.User
	return &updated, nil
}

func (ar *FakeAccountRepo) UpdatePerson(person users.Person) (*users.Person, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	userID, ok := ar.persons[person.ID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	account := ar.accounts[userID]
	account.Person = person
	account.User.PersonName = person.FullName()

	updated := account.Person
	return &updated, nil
}

func (ar *FakeAccountRepo) SetBlocked(username string, blocked bool) error {
	account, err := ar.GetByUsername(username)
	if err != nil {
		return err
	}
	ar.lock.Lock()
	defer ar.lock.Unlock()
	account.Blocked = blocked
	return nil
}
