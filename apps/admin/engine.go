package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
)

func (cli *commandLine) addOrganization(id, name string) error {
	no := organization.NewOrganization{ID: id, Name: name}
	if err := no.Validate(cli.validate); err != nil {
		return err
	}
	org, err := cli.orgSvc.Create(context.Background(), no)
	if err != nil {
		return errors.Wrap(err, "creating organization")
	}
	fmt.Fprintf(cli.out, "organization %s (%s)\n", org.ID, org.Name)
	return nil
}

func (cli *commandLine) initPool(orgID string) error {
	created, err := cli.poolSvc.Initialize(context.Background(), core.CleanString(orgID))
	if err != nil {
		return errors.Wrap(err, "initializing pool")
	}
	if created == 0 {
		fmt.Fprintf(cli.out, "pool of %s already initialized\n", orgID)
		return nil
	}
	fmt.Fprintf(cli.out, "pool of %s initialized with %d creatures\n", orgID, created)
	return nil
}

func (cli *commandLine) importCatalog(path string) error {
	n, err := catalog.Import(context.Background(), cli.catalog, catalog.NewFileSource(path), cli.validate)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d creatures imported\n", n)
	return nil
}

func (cli *commandLine) credit(studentID string, amount int64, reason string) error {
	if amount <= 0 {
		return &argumentError{"amount must be positive"}
	}
	acc, err := cli.ledgerSvc.Credit(context.Background(), core.CleanString(studentID), amount, core.CleanString(reason))
	if err != nil {
		return errors.Wrap(err, "crediting student")
	}
	fmt.Fprintf(cli.out, "%s balance: %d\n", acc.StudentID, acc.Balance())
	return nil
}

var roles = map[string]string{
	"admin":   core.RoleAdmin,
	"teacher": core.RoleTeacher,
	"student": core.RoleStudent,
}

func (cli *commandLine) token(userID, orgID, role string) error {
	r, ok := roles[role]
	if !ok {
		return &argumentError{fmt.Sprintf("unknown role %q", role)}
	}
	if orgID == "" && r != core.RoleAdmin {
		return &argumentError{"-org is required for teachers and students"}
	}
	token, err := cli.auth.GenerateToken(core.Identity{UserID: userID, OrganizationID: orgID, Roles: []string{r}})
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
