package database

import (
	"database/sql"
	"embed"
	"net/url"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

// Migrations are the goose SQL migrations of the postgres schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	MigrationsDir = "migrations"
	driverName    = "postgres"
	adminDBName   = "postgres"
)

var (
	pingAttempts = 30
	pingBackoff  = 100 * time.Millisecond // grows by this much after each attempt
)

// DSN builds the connection URL of dbName. admin connects with the admin credentials when they are set.
func DSN(conf *core.Config, dbName string, admin bool) string {
	dbc := conf.Database
	user := url.UserPassword(dbc.User, dbc.Password)
	if admin && dbc.AdminUser != "" {
		user = url.UserPassword(dbc.AdminUser, dbc.AdminPassword)
	}

	sslMode := "require"
	if dbc.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   driverName,
		User:     user,
		Host:     dbc.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the application database and waits until it answers.
func Open(conf *core.Config) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(conf, conf.Database.Name, false))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ping(db *sql.DB) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * pingBackoff)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func exists(db *sql.DB, query, name string) (bool, error) {
	var found bool
	err := db.QueryRow(query, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return found, err
}

// ensureRole creates the application role when it is missing.
func ensureRole(db *sql.DB, user, password string) error {
	if user == "" {
		return nil
	}
	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", user)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if found {
		return nil
	}
	q := "CREATE USER " + pq.QuoteIdentifier(user) + " CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(password)
	_, err = db.Exec(q)
	return errors.Wrap(err, "creating app user")
}

// ensureDatabase creates name when it is missing.
func ensureDatabase(db *sql.DB, name string) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if found {
		return nil
	}
	_, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name))
	return errors.Wrap(err, "creating database")
}

// CreateIfNotExist creates the application role as admin, then the application database as that role.
func CreateIfNotExist(conf *core.Config) error {
	admin, err := sql.Open(driverName, DSN(conf, adminDBName, true))
	if err != nil {
		return errors.Wrap(err, "opening admin database")
	}
	defer func() { _ = admin.Close() }()
	if err = ping(admin); err != nil {
		return err
	}
	if err = ensureRole(admin, conf.Database.User, conf.Database.Password); err != nil {
		return err
	}

	app, err := sql.Open(driverName, DSN(conf, adminDBName, false))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = app.Close() }()
	return ensureDatabase(app, conf.Database.Name)
}

func Migrate(db *sql.DB) error {
	return errors.Wrap(RunGoose("up", db), "migrating database")
}

// RunGoose runs a goose command (up, down, status, create NAME sql, ...) over the embedded migrations.
func RunGoose(command string, db *sql.DB, args ...string) error {
	return goose.RunFS(command, db, Migrations, MigrationsDir, args...)
}
