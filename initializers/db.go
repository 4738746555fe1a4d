package initializers

import (
	"jobmarket-backend/config"
	"jobmarket-backend/db"
)

func InitDBConnection() {
	conf := config.Conf.Database
	err := db.Connect(db.ConnConfig{
		Host:         conf.Host,
		Port:         conf.Port,
		Name:         conf.Name,
		User:         conf.User,
		Password:     conf.Password,
		MaxOpenConns: conf.MaxOpenConns,
		MaxIdleConns: conf.MaxIdleConns,
		DebugMode:    conf.DebugMode != nil && *conf.DebugMode,
		Migrate:      conf.MigrateOnStart == nil || *conf.MigrateOnStart,
	})
	if err != nil {
		panic(err.Error())
	}
}
