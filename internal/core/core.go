// Package core is the hosted persistence layer: posts and account
// profiles stored in Postgres. It is only constructed when a database
// is configured; the content resolver falls back to the file store
// otherwise.
package core

import (
	"database/sql"
	"log/slog"

	"github.com/mdobak/go-xerrors"

	"github.com/bokjinews/blog/internal/utils/databaseutils"
)

var (
	NoRecordFound     = xerrors.Message("No record found")
	ErrDuplicateEmail = xerrors.Message("Duplicate email")
	ErrDuplicateSlug  = xerrors.Message("Duplicate slug")
)

type Core struct {
	log         *slog.Logger
	db          *sql.DB
	sqlTemplate *databaseutils.SQLTemplate
	session     databaseutils.Session
}

func NewCore(dbConn *sql.DB, log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		sqlTemplate: sqlTemplate,
		session:     databaseutils.NewSession(dbConn),
	}
}
