package main

import (
	"log"

	"skillboard/internal/back"
	"skillboard/internal/config"
	"skillboard/pkg/barapi"
)

func loadFixtures() {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		log.Fatal(err)
	}

	b, err := back.New(
		"sqlite3", conf.SQLDSN,
		barapi.New(conf.APIBase),
		conf.MaxConcurrentFetches,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	if err := b.LoadFixtures(); err != nil {
		log.Fatal(err)
	}
}
