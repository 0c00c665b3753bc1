package main

import (
	"fmt"

	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

var gooseRunFunc = database.RunGoose // mockable

// migrate runs a goose command against the embedded schema migrations.
func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return &argumentError{"migrations need a postgres database (dbEngine=postgres)"}
	}
	command, rest := args[0], append([]string(nil), args[1:]...)

	// only SQL migrations can be embedded
	if command == "create" {
		switch {
		case len(rest) == 1:
			rest = append(rest, "sql")
		case len(rest) > 1 && rest[1] != "sql":
			return &argumentError{"only sql migrations are supported"}
		}
	}

	if err := gooseRunFunc(command, cli.db, rest...); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "migrate %s: done\n", command)
	return nil
}
