package mysql

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"wallet-service/src/pkg/log"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
}

type database struct {
	db *sqlx.DB
}

func (d *database) GetDB() (*sqlx.DB, error) {
	if d.db == nil {
		return nil, errors.New("database connection is not initialized")
	}
	return d.db, nil
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		v.GetString("database.username"),
		v.GetString("database.password"),
		v.GetString("database.host"),
		v.GetInt("database.port"),
		v.GetString("database.name"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql-init", err.Error(), "connect", "")
		return &database{}, err
	}

	db.SetMaxOpenConns(v.GetInt("database.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("database.max_idle_conns"))
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("mysql-init", "database connection established", "connect", v.GetString("database.name"))
	return &database{db: db}, nil
}
