package wallets

import (
	"net/http"
	"strconv"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/server"
	"github.com/fulldump/minipay/users"
)

// Register mounts the wallets routes on app and binds the wallets collection.
func Register(app *server.Dispatcher, db *database.Database, u *users.Service) *Service {

	db.RegisterEntityConstructor(Collection, FromDto)

	s := NewService(db, u)
	app.Put("/wallets/:userId/credit", changeBalance(s.Credit))
	app.Put("/wallets/:userId/debit", changeBalance(s.Debit))
	app.Get("/wallets/:userId", getWallet(s))

	logging.New("WalletsModule").Debug("Wallets module registered")

	return s
}

type amountInput struct {
	Amount float64 `json:"amount"`
}

func changeBalance(change func(userId int, amount float64) (*Wallet, error)) server.HandlerFunc {
	return func(r *server.Request, w *server.Response, next server.Next) error {

		userId, err := parseUserId(r)
		if err != nil {
			return err
		}

		input := amountInput{}
		if r.Body != nil {
			err := r.Bind(&input)
			if err != nil {
				return err
			}
		}

		wallet, err := change(userId, input.Amount)
		if err != nil {
			return err
		}

		return w.JSON(http.StatusOK, wallet.Public())
	}
}

func getWallet(s *Service) server.HandlerFunc {
	return func(r *server.Request, w *server.Response, next server.Next) error {

		userId, err := parseUserId(r)
		if err != nil {
			return err
		}

		wallet, err := s.GetWallet(userId)
		if err != nil {
			return err
		}

		return w.JSON(http.StatusOK, wallet.Public())
	}
}

func parseUserId(r *server.Request) (int, error) {
	userId, err := strconv.Atoi(r.Params["userId"])
	if err != nil || userId == 0 {
		return 0, server.BadRequest("Invalid user ID")
	}
	return userId, nil
}
