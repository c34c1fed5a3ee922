package users

import (
	"net/http"
	"strconv"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/server"
)

// Register mounts the users routes on app and binds the users collection.
func Register(app *server.Dispatcher, db *database.Database) *Service {

	db.RegisterEntityConstructor(Collection, FromDto)

	s := NewService(db)
	app.Post("/users", register(s))
	app.Get("/users/:id", getUser(s))

	logging.New("UsersModule").Debug("Users module registered")

	return s
}

func register(s *Service) server.HandlerFunc {
	return func(r *server.Request, w *server.Response, next server.Next) error {

		input := NewUserInput{}
		err := r.Bind(&input)
		if err != nil {
			return err
		}

		u, err := s.RegisterUser(input)
		if err != nil {
			return err
		}

		return w.JSON(http.StatusCreated, u.Public())
	}
}

func getUser(s *Service) server.HandlerFunc {
	return func(r *server.Request, w *server.Response, next server.Next) error {

		id, err := strconv.Atoi(r.Params["id"])
		if err != nil {
			return server.BadRequest("Invalid user ID")
		}

		u, err := s.GetUser(id)
		if err != nil {
			return err
		}
		if u == nil {
			return server.NotFound("User not found")
		}

		return w.JSON(http.StatusOK, u.Public())
	}
}
