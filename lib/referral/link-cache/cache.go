package referrallinkcache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Provider кэш соответствия (вакансия, рекомендатель) -> токен реферальной ссылки.
// Ссылка неизменна после создания, поэтому инвалидация не нужна.
type Provider interface {
	Get(ctx context.Context, jobID, referrerID string) (token string, found bool, err error)
	Set(ctx context.Context, jobID, referrerID, token string) error
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) Provider {
	return &redisImpl{
		client: client,
		ttl:    ttl,
	}
}

// NewNoop используется, когда redis не настроен
func NewNoop() Provider {
	return noopImpl{}
}

func Key(jobID, referrerID string) string {
	return fmt.Sprintf("jobmarket:referral_link:%s:%s", jobID, referrerID)
}

type redisImpl struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func (i redisImpl) Get(ctx context.Context, jobID, referrerID string) (string, bool, error) {
	token, err := i.client.Get(ctx, Key(jobID, referrerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "ошибка чтения реферальной ссылки из redis")
	}
	return token, true, nil
}

func (i redisImpl) Set(ctx context.Context, jobID, referrerID, token string) error {
	err := i.client.Set(ctx, Key(jobID, referrerID), token, i.ttl).Err()
	if err != nil {
		return errors.Wrap(err, "ошибка записи реферальной ссылки в redis")
	}
	return nil
}

type noopImpl struct{}

func (noopImpl) Get(ctx context.Context, jobID, referrerID string) (string, bool, error) {
	return "", false, nil
}

func (noopImpl) Set(ctx context.Context, jobID, referrerID, token string) error {
	return nil
}
