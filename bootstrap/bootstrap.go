package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/minipay/api"
	"github.com/fulldump/minipay/configuration"
	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/server"
	"github.com/fulldump/minipay/service"
	"github.com/fulldump/minipay/users"
	"github.com/fulldump/minipay/wallets"
)

var VERSION = "dev"

const shutdownTimeout = 10 * time.Second

// NewApp builds the payments API on top of db.
func NewApp(c *configuration.Configuration, db *database.Database) *server.Dispatcher {

	app := server.New()
	app.Use(
		server.AccessLog(logging.New("Access")),
		server.Metrics(),
		server.RateLimit(c.RateLimit, c.RateBurst),
		server.JSONBody(),
	)

	u := users.Register(app, db)
	wallets.Register(app, db, u)

	app.Use(server.ErrorHandler())

	return app
}

// NewAdmin builds the admin API on top of db.
func NewAdmin(c *configuration.Configuration, db *database.Database) *box.B {

	s := service.NewService(db)

	b := api.Build(s, VERSION)
	if c.Compression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(logging.New("AdminAccess")),
		api.InterceptorUnavailable(s.Status),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	return b
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	logger := logging.New("App")

	err := logging.Configure(c.LogLevel, c.LogFormat)
	if err != nil {
		logger.WithError(err).Warn("Keeping default logging")
	}

	db := database.NewDatabase(&database.Config{
		Path: c.DatabasePath,
	})

	servers := []*http.Server{}
	listeners := []net.Listener{}
	listen := func(addr string, h http.Handler) {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			logger.WithError(err).WithField("addr", addr).Fatal("Listen")
		}
		logger.WithField("addr", addr).Info("Listening")
		servers = append(servers, &http.Server{Addr: addr, Handler: h})
		listeners = append(listeners, ln)
	}

	listen(c.HttpAddr, NewApp(c, db))
	if c.AdminAddr != "" {
		listen(c.AdminAddr, NewAdmin(c, db))
	}

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			for _, s := range servers {
				err := s.Shutdown(ctx)
				if err != nil {
					logger.WithError(err).WithField("addr", s.Addr).Error("Shutdown")
				}
			}
			err := db.Stop()
			if err != nil {
				logger.WithError(err).Error("Stop database")
			}
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for sig := range signalChan {
			logger.WithField("signal", sig.String()).Info("Signal received")
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			db.EnsureInitialized()
			logger.WithField("path", c.DatabasePath).Info("Database ready")
		}()

		for i := range servers {
			s, ln := servers[i], listeners[i]
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Serve(ln)
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.WithError(err).WithField("addr", s.Addr).Error("Serve")
				}
			}()
		}

		wg.Wait()
	}

	return
}
