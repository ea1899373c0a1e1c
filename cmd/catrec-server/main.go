// catrec-server 以 HTTP 服务的形式提供邻居类别推荐。
//
// 用法：
//
//	catrec-server -config config.yaml
//
// 配置也可以完全通过 CATREC_ 环境变量给出，见 settings 包。
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rushteam/catrec/api"
	"github.com/rushteam/catrec/app"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/settings"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（YAML），为空时读取 "+settings.ConfigPathEnvVar)
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load settings")
	}
	logging.Init(s.Log.Config())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, s)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         s.Server.Addr,
		Handler:      api.NewRouter(a.Recommender),
		ReadTimeout:  s.Server.ReadTimeout,
		WriteTimeout: s.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("http server failed")
			a.Close()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
