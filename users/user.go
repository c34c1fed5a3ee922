package users

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/server"
)

const (
	TypePayer = "payer"
	TypePayee = "payee"
)

var (
	cpfPattern   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cnpjPattern  = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// User is immutable, every instance has passed validation.
type User struct {
	id       int
	fullName string
	cpfCnpj  string
	email    string
	password string // bcrypt hash
	kind     string
}

type NewUserInput struct {
	FullName string `json:"fullName"`
	CpfCnpj  string `json:"cpfCnpj"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// NewUser validates the input and hashes the password.
func NewUser(input NewUserInput) (*User, error) {

	if strings.TrimSpace(input.Password) == "" {
		return nil, server.BadRequest("Password is required")
	}

	u := &User{
		fullName: input.FullName,
		cpfCnpj:  input.CpfCnpj,
		email:    input.Email,
		kind:     input.Type,
	}
	err := u.validate()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.password = string(hash)

	return u, nil
}

// FromDto rebuilds a stored user, the password is already hashed.
func FromDto(r database.Record) (database.Entity, error) {
	u := &User{
		id:       database.Int(r, "id"),
		fullName: database.String(r, "fullName"),
		cpfCnpj:  database.String(r, "cpfCnpj"),
		email:    database.String(r, "email"),
		password: database.String(r, "password"),
		kind:     database.String(r, "type"),
	}
	if u.password == "" {
		return nil, server.BadRequest("Password is required")
	}
	err := u.validate()
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) validate() error {
	if u.fullName == "" {
		return server.BadRequest("Full name is required")
	}
	if !cpfPattern.MatchString(u.cpfCnpj) && !cnpjPattern.MatchString(u.cpfCnpj) {
		return server.BadRequest("Invalid CPF/CNPJ format")
	}
	if !emailPattern.MatchString(u.email) {
		return server.BadRequest("Invalid email format")
	}
	if u.kind == "" {
		return server.BadRequest("User type is required")
	}
	if u.kind != TypePayer && u.kind != TypePayee {
		return server.BadRequest("Invalid type; must be 'payer' or 'payee'")
	}
	return nil
}

func (u *User) Id() int          { return u.id }
func (u *User) FullName() string { return u.fullName }
func (u *User) CpfCnpj() string  { return u.cpfCnpj }
func (u *User) Email() string    { return u.email }
func (u *User) Type() string     { return u.kind }

// CheckPassword tells if password is the one the user registered with.
func (u *User) CheckPassword(password string) bool {
	if u.password == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.password), []byte(password)) == nil
}

func (u *User) ToDto() database.Record {
	r := database.Record{
		"fullName": u.fullName,
		"cpfCnpj":  u.cpfCnpj,
		"email":    u.email,
		"password": u.password,
		"type":     u.kind,
	}
	if u.id != 0 {
		r["id"] = u.id
	}
	return r
}

// UserResponse is the public view of a user.
type UserResponse struct {
	Id       int    `json:"id"`
	FullName string `json:"fullName"`
	CpfCnpj  string `json:"cpfCnpj"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

func (u *User) Public() UserResponse {
	return UserResponse{
		Id:       u.id,
		FullName: u.fullName,
		CpfCnpj:  u.cpfCnpj,
		Email:    u.email,
		Type:     u.kind,
	}
}
