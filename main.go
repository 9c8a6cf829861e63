package main

import (
	"CampusChat/impl/core"
	"CampusChat/internal/chat"
	"CampusChat/internal/config"
	"CampusChat/internal/http-server/api"
	"CampusChat/internal/lib/logger"
	"CampusChat/internal/lib/sl"
	"CampusChat/internal/service/backend"
	"CampusChat/internal/session"
	"CampusChat/internal/ws"
	"context"
	"flag"
	"log/slog"
	"os"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env)

	svc := backend.NewBackendService(conf, lg)

	// Session identity is read once from the persisted snapshot; a fresh
	// install falls back to the backend and caches the result.
	storage := session.NewFileStorage(conf.Session.Path)
	user, err := storage.Load()
	if err != nil {
		lg.With(sl.Err(err)).Warn("no persisted session, asking backend")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		user, err = svc.CurrentUser(ctx)
		cancel()
		if err != nil {
			lg.With(sl.Err(err)).Error("failed to resolve session user")
			os.Exit(1)
		}
		if err := storage.Save(user); err != nil {
			lg.With(sl.Err(err)).Warn("failed to persist session")
		}
	}
	sess := session.New(user)
	lg = lg.With(slog.String("user", user.Name))

	conn := ws.New(
		conf.Socket.URL,
		conf.Backend.Token,
		ws.JoinPayload{UserID: sess.User.ID, ClientID: sess.ClientID},
		conf.Socket.ReconnectAttempts,
		time.Duration(conf.Socket.ReconnectDelay)*time.Second,
		lg,
	)
	go conn.Run()
	defer conn.Close()

	list := chat.NewListSync(sess.User.ID, conn, lg)
	engine := chat.NewEngine(
		sess, conn, svc, list,
		conf.PanelCapacity(),
		time.Duration(conf.Chat.TypingExpiry)*time.Second,
		lg,
	)
	engine.Start(context.Background())

	handler := core.New(sess, storage, engine, svc, conf.Listen.ApiKey, lg)

	if err := api.New(conf, lg, handler); err != nil {
		lg.With(sl.Err(err)).Error("api server stopped")
		os.Exit(1)
	}
}
