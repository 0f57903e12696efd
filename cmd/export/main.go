package main

import (
	"flag"
	"os"

	"github.com/HavvokLab/solix-setup/app"
	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

const DefaultFileName = "devices.csv"

func init() {
	logger.Init("export.log")
}

func main() {
	filename := flag.String("f", DefaultFileName, "csv file to write")
	flag.Parse()

	a, err := app.New(config.GetConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	devices, err := a.DeviceRepo.FindAll()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to find devices")
	}

	file, err := os.Create(*filename)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create file")
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&devices, file); err != nil {
		log.Fatal().Err(err).Msg("failed to write csv")
	}

	log.Info().Int("count", len(devices)).Str("file", *filename).Msg("devices exported")
}
