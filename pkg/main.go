package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/solcafe/server/pkg/internal"
	"github.com/solcafe/server/pkg/internal/cache"
	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/http"
	"github.com/solcafe/server/pkg/internal/services"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____        _            __\n/ ___|  ___ | | ___ __ _ / _| ___\n\\___ \\ / _ \\| |/ __/ _` | |_ / _ \\\n ___) | (_) | | (_| (_| |  _|  __/\n|____/ \\___/|_|\\___\\__,_|_|  \\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Solcafe"), pkg.AppVersion)
	fmt.Printf("The solarpunk community backend\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Caches
	if err := cache.NewStore(); err != nil {
		log.Error().Err(err).Msg("An error occurred when setting up in-memory cache. Caching will be disabled.")
	}
	cache.NewRedis()

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Local storage for uploaded media
	services.NewStorage()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
