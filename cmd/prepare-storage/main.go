// Prepare the killer sudoku storage system: bring the database
// schema up to date and load the sample puzzles.  Meant to run as
// a release step before the server starts.
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
	logrus.Info("Preparing data storage...")
	if err := dbprep.EnsureData(cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Fatal("Couldn't prepare storage")
	}
	logrus.Info("Database ready.")
}
