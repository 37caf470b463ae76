package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// ── demo services ────────────────────────────────────────────────────────────

type Transport interface {
	Send(to, body string) error
}

type LogTransport struct {
	log zerolog.Logger
}

func NewLogTransport(log zerolog.Logger) *LogTransport { return &LogTransport{log: log} }

func (t *LogTransport) Send(to, body string) error {
	t.log.Info().Str("to", to).Str("body", body).Msg("mail sent")
	return nil
}

type Mailer struct {
	transport Transport
	from      string
	retries   int
}

func NewMailer(transport Transport, from string, retries int) *Mailer {
	return &Mailer{transport: transport, from: from, retries: retries}
}

func (m *Mailer) Send(to, body string) error {
	var err error
	for i := 0; i < m.retries; i++ {
		if err = m.transport.Send(to, body); err == nil {
			return nil
		}
	}
	return err
}

// MailerFactory reads the sender address from the container before building
// the Mailer.
type MailerFactory struct{}

func (MailerFactory) Create(c *container.Container) (any, error) {
	transport, err := container.Resolve[Transport](c, "Transport")
	if err != nil {
		return nil, err
	}
	from, err := container.Resolve[string](c, "mail.from")
	if err != nil {
		return nil, err
	}
	return NewMailer(transport, from, 3), nil
}

func types() *container.Types {
	t := container.NewTypes()
	t.MustRegister("LogTransport", NewLogTransport, container.Ref("log", "logger"))
	t.MustRegister("Mailer", NewMailer,
		container.Ref("transport", "Transport"),
		container.Scalar("from").WithDefault("noreply@example.com"),
		container.Scalar("retries").WithDefault(3),
	)
	return t
}

func main() {
	application := app.New(nil, container.WithTypes(types()))

	application.Set("Transport", "LogTransport")
	application.Set("mail.from", "hello@example.com")
	application.Set("mailer", MailerFactory{})
	application.Set("started_at", func() any { return time.Now().UTC() })

	router := application.Router()
	router.Prefix("/api", func(api *routing.Router) {
		api.Post("/mail/{to}", func(w http.ResponseWriter, r *http.Request) {
			res := gohttp.NewResponse(w)
			mailer, err := container.Resolve[*Mailer](application.Container, "mailer")
			if err != nil {
				res.FromError(err)
				return
			}
			if err := mailer.Send(routing.Param(r, "to"), "hello"); err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(map[string]any{"sent": true, "from": mailer.from})
		})
		api.Get("/uptime", func(w http.ResponseWriter, r *http.Request) {
			started := container.MustResolve[time.Time](application.Container, "started_at")
			gohttp.NewResponse(w).Success(map[string]any{"uptime": time.Since(started).String()})
		})
	})

	if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger := application.Logger()
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
