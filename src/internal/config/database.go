package config

import (
	"github.com/spf13/viper"

	"wallet-service/src/pkg/databases/mysql"
	"wallet-service/src/pkg/log"
)

func NewDatabase(viper *viper.Viper, log log.Log) mysql.DBInterface {
	db, err := mysql.InitConnection(viper, log)
	if err != nil {
		log.Error("database init", err.Error(), "config", "")
	}

	return db
}
