// Package partition maps domain events onto hierarchical object keys so that
// downstream query engines can prune by event type, date and hour.
package partition

import (
	"fmt"
	"time"
)

// Extension is the file suffix of every stored event object
const Extension = ".jsonl"

// BuildKey returns "{eventType}/dt={YYYY-MM-DD}/hour={HH}/{code}-{epochMillis}.jsonl".
// Date and hour come from the UTC calendar representation of ts. Two calls for
// the same event type and code within one millisecond produce the same key.
func BuildKey(eventType, code string, ts time.Time) string {
	utc := ts.UTC()
	return fmt.Sprintf("%s/dt=%s/hour=%s/%s-%d%s",
		eventType,
		utc.Format("2006-01-02"),
		utc.Format("15"),
		code,
		utc.UnixMilli(),
		Extension,
	)
}
