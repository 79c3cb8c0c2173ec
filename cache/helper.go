package cache

import (
	"fmt"
)

const (
	cachePage = "listings:default"
	cacheUrls = "urls:%s"
)

func constructPageKey() string {
	return cachePage
}

func constructUrlsKey(propertyID string) string {
	return fmt.Sprintf(cacheUrls, propertyID)
}
