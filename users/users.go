package users

import (
	"github.com/jrsteele09/anpr-client/sessions"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the login account as the API returns it.
type AuthUser struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	PersonID   int64  `json:"personId"`
	PersonName string `json:"personName"`
	Asset      bool   `json:"asset"`
	IsDeleted  bool   `json:"isDeleted"`
}

// Person is the profile record behind an AuthUser.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Asset     bool   `json:"asset"`
	IsDeleted bool   `json:"isDeleted"`
}

func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Account is the server side of a user: profile, password hash and parking roles.
// Only the in-process API keeps accounts; the client never sees a password hash.
type Account struct {
	User           AuthUser
	Person         Person
	PasswordHash   string `json:"-"`
	RolesByParking []sessions.RoleByParking
	Blocked        bool
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the account's hash
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}
