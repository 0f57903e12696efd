package main

import (
	"context"
	"fmt"
	"time"

	"github.com/HavvokLab/solix-setup/app"
	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var reloadJobLogger = logger.New("reload_job.log")

func main() {
	logger.Init("runner.log")

	conf := config.GetConfig()
	a, err := app.New(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	service := a.ReloadService()

	cron := gocron.NewScheduler(time.Local)
	if err := addCronJob(cron, conf.Crontab.ReloadTime, "reload", reloadJobLogger, func() error {
		return service.ReloadAll(context.Background())
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register runner jobs")
	}

	log.Info().Str("reload_time", conf.Crontab.ReloadTime).Msg("starting runner scheduler")
	cron.StartBlocking()
}

func addCronJob(cron *gocron.Scheduler, cronExpr, name string, jobLogger zerolog.Logger, fn func() error) error {
	if _, err := cron.Cron(cronExpr).StartImmediately().SingletonMode().Do(func() {
		safeRun(jobLogger, name, fn)
	}); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	return nil
}

func safeRun(jobLogger zerolog.Logger, name string, fn func() error) {
	log := jobLogger.With().Str("job", name).Logger()
	log.Info().Msg("job started")
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("recover", r).Msg("job panicked")
		}
	}()

	if err := fn(); err != nil {
		log.Error().Err(err).Msg("job finished with error")
		return
	}

	log.Info().Msg("job finished successfully")
}
