package hoststats

import (
	"testing"
	"time"
)

func TestSampleReturnsRecentTimestamp(t *testing.T) {
	before := time.Now()
	s := Sample()
	if s.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("expected a recent timestamp, got %v", s.Timestamp)
	}
}
