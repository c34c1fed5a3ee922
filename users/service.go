package users

import (
	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/filter"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/mutex"
	"github.com/fulldump/minipay/server"
)

const Collection = "users"

type Service struct {
	db     *database.Database
	logger *logrus.Entry

	registrations mutex.Mutex
}

func NewService(db *database.Database) *Service {
	return &Service{
		db:     db,
		logger: logging.New("UsersService"),
	}
}

// GetUser returns nil when the user does not exist.
func (s *Service) GetUser(id int) (*User, error) {
	u, _, err := database.FindOneAs[*User](s.db, Collection, filter.Filter{"id": id})
	return u, err
}

// RegisterUser rejects a cpfCnpj or email already in use. The check and
// the insert run under registrations, hashing happens before taking it.
func (s *Service) RegisterUser(input NewUserInput) (*User, error) {

	candidate, invalid := NewUser(input)

	return mutex.Exclusive(&s.registrations, func() (*User, error) {

		existing, err := s.db.Find(Collection, filter.Filter{
			"$or": []filter.Filter{
				{"cpfCnpj": input.CpfCnpj},
				{"email": input.Email},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, server.BadRequest("CPF/CNPJ or Email already exists")
		}
		if invalid != nil {
			return nil, invalid
		}

		u, err := database.InsertAs(s.db, Collection, candidate)
		if err != nil {
			return nil, err
		}

		s.logger.WithField("id", u.Id()).Debug("User registered")

		return u, nil
	})
}
