package main

import (
	"errors"
	"flag"
	"log"

	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		source = flag.String("path", "file://migrations", "migration source")
		down   = flag.Int("down", 0, "roll back N steps instead of migrating up")
	)
	flag.Parse()

	config.LoadConfig()

	m, err := migrate.New(*source, config.GlobalConfig.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down > 0 {
		if err := m.Steps(-*down); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
		log.Printf("Rolled back %d step(s)", *down)
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// dirty 状态：强制回到上一个干净版本后重试
		version, dirty, verr := m.Version()
		if verr != nil || !dirty {
			log.Fatal(err)
		}
		log.Printf("Database is dirty at version %d, forcing version %d...", version, int(version)-1)
		if err := m.Force(int(version) - 1); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
	}

	version, _, _ := m.Version()
	log.Printf("Migration successful, version %d", version)
}
