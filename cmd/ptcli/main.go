// Command ptcli reads and edits the PixelTrader database from a terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"pixeltrader/internal/repo"
	"pixeltrader/pkg/database"
	"pixeltrader/pkg/utils"

	"github.com/google/subcommands"
)

var dbPath = flag.String("db", "", "Path to the sqlite database (defaults to DB_PATH or "+database.DefaultPath+")")

func main() {
	_ = utils.LoadEnv()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&summaryCmd{}, "portfolio")
	commander.Register(&exportCmd{}, "data")
	commander.Register(&importCmd{}, "data")
	commander.Register(&calcCmd{}, "tools")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openRepo opens the database and runs migrations so a fresh file works.
func openRepo() (*repo.Repository, func(), error) {
	p := *dbPath
	if p == "" {
		p = utils.GetEnv("DB_PATH", database.DefaultPath)
	}

	db, err := database.New(database.WithPath(p))
	if err != nil {
		return nil, nil, err
	}
	r, err := repo.New(db.Get())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := r.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return r, func() { db.Close() }, nil
}
