package initializers

import (
	"context"
	"jobmarket-backend/config"
	referrallinkcache "jobmarket-backend/lib/referral/link-cache"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// InitReferralLinkCache кэш реферальных ссылок, без Redis ссылки читаются из базы
func InitReferralLinkCache(ctx context.Context) referrallinkcache.Provider {
	conf := config.Conf.Redis
	if conf.Addr == "" {
		return referrallinkcache.NewNoop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis недоступен, кэш реферальных ссылок отключен")
		_ = client.Close()
		return referrallinkcache.NewNoop()
	}
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()
	return referrallinkcache.NewRedis(client, time.Duration(conf.LinkTTLMins)*time.Minute)
}
