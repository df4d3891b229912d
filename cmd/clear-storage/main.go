// Clear and re-initialize the killer sudoku storage system: flush
// the cache, drop the database schema, and rebuild both with the
// sample puzzles.
package main

import (
	"flag"

	"github.com/jovankoledin/killer.go/conf"
	"github.com/jovankoledin/killer.go/dbprep"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "killer.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := conf.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Couldn't load configuration")
	}
	logrus.Info("Removing existing data storage and cache...")
	if err := dbprep.ReinitializeAll(cfg.RedisURL, cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Fatal("Couldn't clear storage")
	}
	logrus.Info("Database re-initialized.")
}
