package main

import (
	"context"
	"os"

	"github.com/HavvokLab/solix-setup/app"
	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/flow"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/pkg/prompt"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"github.com/rs/zerolog/log"
)

func init() {
	logger.Init("setup.log")
}

func main() {
	a, err := app.New(config.GetConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	ctx := context.Background()
	configFlow := a.ConfigFlow()
	p := prompt.New(os.Stdin, os.Stdout)

	result, err := configFlow.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start setup")
	}
	for result.Type == flow.ResultForm {
		values, err := p.Ask(result.Fields, result.Errors, result.Placeholders)
		if err != nil {
			log.Warn().Err(err).Msg("setup cancelled")
			return
		}

		result, err = configFlow.Step(ctx, result.StepID, values)
		if err != nil {
			log.Fatal().Err(err).Str("state", string(configFlow.State())).Msg("setup failed")
		}
	}

	switch result.Type {
	case flow.ResultAbort:
		log.Warn().Str("reason", result.Reason).Msg("setup aborted")
	case flow.ResultCreateEntry:
		entry := *result.Entry
		entry.Data.Password = util.Mask(entry.Data.Password)
		util.PrintJSON(entry)
		log.Info().Int64("entry_id", entry.ID).Str("title", entry.Title).Msg("account configured")
	}
}
