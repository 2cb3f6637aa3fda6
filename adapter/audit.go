package adapter

import (
	"fmt"
	"io"

	"github.com/shmkit/shmkit/pkg/audit"
)

// FlushJournal drains the lifecycle journal into w, one event per line.
// It returns the number of events written.
func FlushJournal(j *audit.Journal, w io.Writer) (int, error) {
	events := j.Drain()
	for i, e := range events {
		_, err := fmt.Fprintf(w, "%s %s key=%#010x size=%d\n",
			e.Time.Format("2006-01-02 15:04:05.999999"), e.Op, e.Key, e.Size)
		if err != nil {
			return i, err
		}
	}
	return len(events), nil
}
