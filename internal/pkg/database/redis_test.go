package database

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisOptionsApply(t *testing.T) {
	opt, err := redis.ParseURL("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	PubSubRedis.apply(opt)
	if opt.ReadTimeout != -1 || opt.ClientName != "boost-api-hub" || opt.PoolSize != 4 || opt.DB != 2 {
		t.Fatalf("unexpected pub/sub options: %+v", opt)
	}

	CacheRedis.apply(opt)
	if opt.ReadTimeout != 3*time.Second || opt.ClientName != "boost-api-cache" || opt.PoolSize != 20 {
		t.Fatalf("unexpected cache options: %+v", opt)
	}
}

func TestNewRedisWithoutURL(t *testing.T) {
	client, err := NewRedis("", CacheRedis)
	if client != nil || err != nil {
		t.Fatalf("expected nil client and error, got %v %v", client, err)
	}
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	if _, err := NewRedis("http://localhost:6379", CacheRedis); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}
