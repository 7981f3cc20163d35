package main

import (
	"go.uber.org/zap"

	"github.com/fsdevblog/minurl/internal/app"
	"github.com/fsdevblog/minurl/internal/bmeta"
	"github.com/fsdevblog/minurl/internal/config"
)

// Заполняются при сборке: go build -ldflags "-X main.buildVersion=v1.0.0 ...".
//
//nolint:gochecknoglobals
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	bmeta.Print(buildVersion, buildDate, buildCommit)

	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))
	defer func() { _ = a.Logger.Sync() }()

	a.Logger.Info("Starting server",
		zap.String("address", appConf.ServerAddress),
		zap.String("baseURL", appConf.BaseURL),
		zap.String("storage", string(appConf.StorageType())),
		zap.Bool("redis", appConf.RedisAddr != ""),
	)
	if err := a.Run(); err != nil {
		a.Logger.Error("Server stopped with error", zap.Error(err))
		panic(err)
	}
}
