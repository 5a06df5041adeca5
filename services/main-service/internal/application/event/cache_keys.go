package event

import (
	"fmt"
	"time"
)

// cacheGenTTL bounds how long an invalidation stays visible to in-flight
// public reads. It only needs to outlive a single read.
const cacheGenTTL = 10 * time.Minute

func cacheKeyEvent(id int64) string {
	return fmt.Sprintf("ewm:event:%d", id)
}

// cacheKeyEventGen changes on every invalidation of event id.
func cacheKeyEventGen(id int64) string {
	return fmt.Sprintf("ewm:event:%d:gen", id)
}
