package config

import (
	"os"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"jobmarket" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MaxOpenConns   int    `default:"20" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns   int    `default:"5" env:"DB_MAX_IDLE_CONNS"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret     string `default:"" env:"JWT_SECRET"`
		SettlementKey string `default:"" env:"SETTLEMENT_KEY"` // ключ наблюдателя блокчейна и сервиса расчета выплат
	}
	Nats struct {
		URL           string `default:"" env:"NATS_URL"`
		SubjectPrefix string `default:"jobmarket" env:"NATS_SUBJECT_PREFIX"`
		ConnTimeoutS  int    `default:"10" env:"NATS_CONN_TIMEOUT_SEC"`
	}
	Redis struct {
		Addr        string `default:"" env:"REDIS_ADDR"`
		Password    string `default:"" env:"REDIS_PASSWORD"`
		DB          int    `default:"0" env:"REDIS_DB"`
		LinkTTLMins int    `default:"1440" env:"REDIS_REFERRAL_LINK_TTL_MIN"`
	}
	Job struct {
		LifetimeDays          int `default:"90" env:"JOB_LIFETIME_DAYS"`
		ExpireWorkerIntervalS int `default:"300" env:"JOB_EXPIRE_WORKER_INTERVAL_SEC"`
		SimilarLimit          int `default:"5" env:"JOB_SIMILAR_LIMIT"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	// .env нужен только для локального запуска
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("не удалось прочитать .env")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
