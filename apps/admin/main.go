package main

import (
	"log"
	"os"
	_ "time/tzdata"

	echoapi "github.com/Shakso89/pokeayman-16-sub001/apps/api/echo"
	"github.com/Shakso89/pokeayman-16-sub001/apps/container"
	"github.com/Shakso89/pokeayman-16-sub001/core"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	c, err := container.New(conf, container.Options{LogPrefix: "ADMIN : "})
	if err != nil {
		logger.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		db:        c.SQL,
		validate:  c.Validate,
		orgSvc:    c.OrgSvc,
		poolSvc:   c.PoolSvc,
		ledgerSvc: c.LedgerSvc,
		catalog:   c.Catalog,
		auth:      echoapi.NewAuthFromConfig(conf),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := c.Close(); cErr != nil {
		logger.Printf("closing: %v", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
