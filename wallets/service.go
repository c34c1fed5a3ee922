package wallets

import (
	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/filter"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/mutex"
	"github.com/fulldump/minipay/server"
	"github.com/fulldump/minipay/users"
)

const Collection = "wallets"

type Service struct {
	db     *database.Database
	users  *users.Service
	logger *logrus.Entry

	// balances serializes read-modify-write cycles on wallets
	balances mutex.Mutex
}

func NewService(db *database.Database, u *users.Service) *Service {
	return &Service{
		db:     db,
		users:  u,
		logger: logging.New("WalletsService"),
	}
}

// GetWallet returns the wallet of a user, creating an empty one the first
// time. Unknown users are a NotFound error.
func (s *Service) GetWallet(userId int) (*Wallet, error) {
	return mutex.Exclusive(&s.balances, func() (*Wallet, error) {
		return s.getWallet(userId)
	})
}

func (s *Service) getWallet(userId int) (*Wallet, error) {

	w, found, err := database.FindOneAs[*Wallet](s.db, Collection, filter.Filter{"userId": userId})
	if err != nil {
		return nil, err
	}
	if found {
		return w, nil
	}

	u, err := s.users.GetUser(userId)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, server.NotFound("User not found")
	}

	w, err = NewWallet(userId, 0)
	if err != nil {
		return nil, err
	}

	w, err = database.InsertAs(s.db, Collection, w)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", userId).Debug("Wallet created")

	return w, nil
}

func (s *Service) Credit(userId int, amount float64) (*Wallet, error) {
	return s.change(userId, func(w *Wallet) (*Wallet, error) {
		return w.Credit(amount)
	})
}

func (s *Service) Debit(userId int, amount float64) (*Wallet, error) {
	return s.change(userId, func(w *Wallet) (*Wallet, error) {
		return w.Debit(amount)
	})
}

func (s *Service) change(userId int, f func(w *Wallet) (*Wallet, error)) (*Wallet, error) {
	return mutex.Exclusive(&s.balances, func() (*Wallet, error) {

		w, err := s.getWallet(userId)
		if err != nil {
			return nil, err
		}

		changed, err := f(w)
		if err != nil {
			return nil, err
		}

		updated, err := database.UpdateAs[*Wallet](s.db, Collection,
			filter.Filter{"userId": userId},
			database.Record{"balance": changed.Balance()},
		)
		if err != nil {
			return nil, err
		}
		if len(updated) == 0 {
			return nil, server.NotFound("Wallet not found")
		}

		return updated[0], nil
	})
}
