// Package dbprep prepares the backing stores: it migrates the
// database schema, loads the sample puzzles, and can wipe both
// the database and the cache for a clean redeploy.
package dbprep

import (
	"fmt"
)

// EnsureData brings the database schema up to date.  When the
// migration actually changed the schema version, the sample
// puzzles are (re)loaded as well.
func EnsureData(databaseURL string) error {
	inVersion, err := SchemaVersion(databaseURL)
	if err != nil {
		return fmt.Errorf("couldn't get initial data schema version: %v", err)
	}
	if err := SchemaUp(databaseURL); err != nil {
		return fmt.Errorf("couldn't install data schema: %v", err)
	}
	outVersion, err := SchemaVersion(databaseURL)
	if err != nil {
		return fmt.Errorf("couldn't get final data schema version: %v", err)
	}
	if outVersion == 0 {
		return fmt.Errorf("database schema still at version 0, shouldn't be")
	}
	if inVersion != outVersion {
		if err := DataUp(databaseURL); err != nil {
			return fmt.Errorf("couldn't load data: %v", err)
		}
	}
	return nil
}

// RemoveData tears the schema (and all stored puzzles) down.
func RemoveData(databaseURL string) error {
	version, err := SchemaVersion(databaseURL)
	if err != nil {
		return fmt.Errorf("couldn't get initial data schema version: %v", err)
	}
	if version > 0 {
		if err := SchemaDown(databaseURL); err != nil {
			return fmt.Errorf("couldn't remove tables: %v", err)
		}
	}
	return nil
}

// ReinitializeAll wipes the cache and the database and rebuilds
// both from scratch.
func ReinitializeAll(redisURL, databaseURL string) error {
	// clear cache
	if err := ClearCache(redisURL); err != nil {
		return fmt.Errorf("couldn't clear cache: %v", err)
	}
	// clear database
	if err := RemoveData(databaseURL); err != nil {
		return fmt.Errorf("couldn't clear database: %v", err)
	}
	// reload database
	if err := EnsureData(databaseURL); err != nil {
		return fmt.Errorf("couldn't load database: %v", err)
	}
	return nil
}
