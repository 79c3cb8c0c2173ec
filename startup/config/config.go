package config

import "os"

type Config struct {
	Port          string
	RentDBHost    string
	RentDBPort    string
	CacheHost     string
	CachePort     string
	SecretKey     string
	TokenLifetime string
	JaegerAddress string
	StorageRegion string
	StorageBucket string
	CasbinModel   string
	CasbinPolicy  string
}

func NewConfig() *Config {
	return &Config{
		Port:          os.Getenv("RENT_SERVICE_PORT"),
		RentDBHost:    os.Getenv("RENT_DB_HOST"),
		RentDBPort:    os.Getenv("RENT_DB_PORT"),
		CacheHost:     os.Getenv("LISTING_CACHE_HOST"),
		CachePort:     os.Getenv("LISTING_CACHE_PORT"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		TokenLifetime: os.Getenv("TOKEN_LIFETIME"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		StorageRegion: os.Getenv("STORAGE_REGION"),
		StorageBucket: os.Getenv("STORAGE_BUCKET"),
		CasbinModel:   "./rbac_model.conf",
		CasbinPolicy:  "./policy.csv",
	}
}
