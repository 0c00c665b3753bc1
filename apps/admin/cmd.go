package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/Shakso89/pokeayman-16-sub001/apps/api/echo"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

var errHelp = errors.New("help provided")

type argumentError struct {
	msg string
}

func (err *argumentError) Error() string {
	return err.msg
}

type commandLine struct {
	db        *sql.DB // nil on the in-memory engine
	validate  *validator.Validate
	orgSvc    *organization.Service
	poolSvc   *pool.Service
	ledgerSvc *ledger.Service
	catalog   catalog.Store
	auth      *echoapi.Auth
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                        - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  addorg -name NAME [-id ID]                    - register an organization")
	fmt.Fprintln(cli.out, "  initpool -org ORG                             - seed an organization's creature pool")
	fmt.Fprintln(cli.out, "  importcatalog -file PATH                      - load creatures into the catalog table")
	fmt.Fprintln(cli.out, "  credit -student ID -amount N [-reason TEXT]   - credit coins to a student")
	fmt.Fprintln(cli.out, "  token -user ID [-org ORG] [-role ROLE]        - sign an identity token (admin|teacher|student)")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addOrgCmd := cli.flagSet("addorg")
	addOrgID := addOrgCmd.String("id", "", "The organization id. Generated when empty.")
	addOrgName := addOrgCmd.String("name", "", "The organization's display name.")

	initPoolCmd := cli.flagSet("initpool")
	initPoolOrg := initPoolCmd.String("org", "", "The organization id.")

	importCmd := cli.flagSet("importcatalog")
	importFile := importCmd.String("file", "", "Path to a JSON array of creatures.")

	creditCmd := cli.flagSet("credit")
	creditStudent := creditCmd.String("student", "", "The student id.")
	creditAmount := creditCmd.Int64("amount", 0, "Coins to credit.")
	creditReason := creditCmd.String("reason", ledger.ReasonManual, "Journal reason.")

	tokenCmd := cli.flagSet("token")
	tokenUser := tokenCmd.String("user", "", "The user id carried by the token.")
	tokenOrg := tokenCmd.String("org", "", "The user's organization.")
	tokenRole := tokenCmd.String("role", "student", "admin, teacher or student.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addorg":
		if err := addOrgCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.addOrganization(*addOrgID, *addOrgName)
	case "initpool":
		if err := initPoolCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *initPoolOrg == "" {
			initPoolCmd.Usage()
			return errHelp
		}
		return cli.initPool(*initPoolOrg)
	case "importcatalog":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importCatalog(*importFile)
	case "credit":
		if err := creditCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *creditStudent == "" {
			creditCmd.Usage()
			return errHelp
		}
		return cli.credit(*creditStudent, *creditAmount, *creditReason)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUser == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenUser, *tokenOrg, *tokenRole)
	default:
		cli.printUsage()
		return errHelp
	}
}
