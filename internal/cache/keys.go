package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// InsightRunKey caches one generated insight run per tenant, requested
// type, and timeframe hint.
func InsightRunKey(tenantID uuid.UUID, insightType, timeframe string) string {
	if timeframe == "" {
		timeframe = "any"
	}
	return fmt.Sprintf("insights:run:%s:%s:%s", tenantID, insightType, timeframe)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
