package models

import (
	"errors"
	"fmt"
	"sync"

	"github.com/evilsocket/islazy/log"
	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"

	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

var ErrNotFound = errors.New("record not found")

// Repository is the gorm backed storage of every record kind.
type Repository struct {
	sync.Mutex
	db      *gorm.DB
	dialect string
}

func MySQLURL(user, password, host, port, name string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, password, host, port, name)
}

// Open connects to the database and migrates the schema. Supported dialects
// are mysql and sqlite3.
func Open(dialect, url string) (*Repository, error) {
	db, err := gorm.Open(dialect, url)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "connecting to %s database", dialect)
	}

	if dialect == "sqlite3" {
		// a single connection keeps :memory: databases shared and writes serialized
		db.DB().SetMaxOpenConns(1)
	}

	if log.Level == log.DEBUG {
		db = db.Debug()
	}

	if err = db.AutoMigrate(&Message{}, &Mute{}, &RateLimit{}, &Domain{}, &Payout{}, &PageSettings{}, &Offer{}).Error; err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "migrating schema")
	}

	return &Repository{
		db:      db,
		dialect: dialect,
	}, nil
}

func (r *Repository) Close() error {
	return pkgerrors.Wrap(r.db.Close(), "closing database")
}

func notFound(err error) bool {
	return gorm.IsRecordNotFoundError(err)
}
