package sql

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/zutoData/pindata-sub001/pkg/store/sql/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is the GORM-backed VersionStore implementation.
type Store struct {
	db *gorm.DB
}

// NewStore connects to the metadata database named by storeURL and migrates
// the schema. The dialect is chosen from the URL scheme: sqlite, postgres,
// mysql, or sqlserver.
func NewStore(storeURL string, logger *logrus.Logger) (*Store, error) {
	dialector, err := dialectorFor(storeURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: NewLoggerAdaptor(logger, LoggerAdaptorConfig{
			SlowThreshold:             500 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", storeURL, err)
	}

	return NewStoreWithDB(db)
}

// NewStoreWithDB wraps an already-open connection. Used by tests.
func NewStoreWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&model.Dataset{}, &model.Version{}, &model.DatasetFile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func dialectorFor(storeURL string) (gorm.Dialector, error) {
	u, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store url %q: %w", storeURL, err)
	}

	switch u.Scheme {
	case "sqlite":
		return gormlite.Open(strings.TrimPrefix(storeURL, "sqlite://")), nil
	case "postgres", "postgresql":
		return postgres.Open(storeURL), nil
	case "mysql":
		return mysql.Open(strings.TrimPrefix(storeURL, "mysql://")), nil
	case "sqlserver":
		return sqlserver.Open(storeURL), nil
	default:
		return nil, fmt.Errorf("unsupported store url scheme %q", u.Scheme)
	}
}
