package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/HavvokLab/solix-setup/app"
	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/flow"
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/pkg/prompt"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/rs/zerolog/log"
)

func init() {
	logger.Init("options.log")
}

func main() {
	username := flag.String("username", "", "Account username of the entry to edit")
	flag.Parse()

	if util.IsEmpty(*username) {
		log.Fatal().Msg("username is required")
	}

	conf := config.GetConfig()
	a, err := app.New(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	entry, err := a.EntryRepo.FindByUniqueID(conf.Setup.Domain, model.UniqueID(*username))
	if err != nil {
		if errors.Is(err, repo.ErrEntryNotFound) {
			log.Fatal().Str("username", *username).Msg("account is not configured")
		}
		log.Fatal().Err(err).Msg("failed to find config entry")
	}

	ctx := context.Background()
	optionsFlow := a.OptionsFlow(entry)
	p := prompt.New(os.Stdin, os.Stdout)

	result, err := optionsFlow.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render options")
	}

	for result.Type == flow.ResultForm {
		values, err := p.Ask(result.Fields, result.Errors, result.Placeholders)
		if err != nil {
			log.Warn().Err(err).Msg("options cancelled")
			return
		}

		result, err = optionsFlow.Step(ctx, result.StepID, values)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to update options")
		}
	}

	util.PrintJSON(result.Entry.Options)
	log.Info().Int64("entry_id", result.Entry.ID).Msg("options updated, devices are pruned on the next reload")
}
