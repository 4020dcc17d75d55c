package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"skillboard/internal/back"
	"skillboard/internal/bot"
	"skillboard/internal/config"
	"skillboard/internal/web"
	"skillboard/pkg/barapi"
)

func serve() error {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	b, err := back.New(
		"sqlite3", conf.SQLDSN,
		barapi.New(conf.APIBase),
		conf.MaxConcurrentFetches,
	)
	if err != nil {
		return err
	}
	defer b.Close()

	discord, err := bot.New(b, conf.DiscordToken, conf.DiscordAdminUserID)
	if err != nil {
		return err
	}

	server := web.NewServer(b, conf.WebAddr)

	done := make(chan struct{})
	var wg sync.WaitGroup
	go b.Run(&wg, done)
	go discord.Serve(&wg, done)
	go server.Serve(&wg, done)

	signaled := make(chan os.Signal, 1)
	signal.Notify(signaled, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signaled
	log.Printf("warning: received signal %d", sig)

	close(done)
	wg.Wait()
	log.Print("info: shutdown complete")

	return nil
}
