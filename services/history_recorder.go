package services

import (
	"log"
	"time"

	"github.com/teamforge-api/models"
)

const historyQueueSize = 256

// HistoryRecorder appends user-visible audit entries as a fire-and-
// forget side effect of the operation that triggered them. Record is
// inert: it never blocks the caller, never returns an error, and a
// failed append is logged and dropped. History is an observability side
// channel, not a correctness dependency of the primary operation.
//
// Entries are queued in the order the triggering operations complete
// and written by a single worker, so the store sees one append at a
// time per recorder; the store's own append is atomic per user, so
// concurrent recorders cannot lose entries either.
type HistoryRecorder struct {
	store HistoryStore
	queue chan models.HistoryEntry
	done  chan struct{}
}

// NewHistoryRecorder starts a recorder draining into the given store.
func NewHistoryRecorder(store HistoryStore) *HistoryRecorder {
	r := &HistoryRecorder{
		store: store,
		queue: make(chan models.HistoryEntry, historyQueueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues a history entry for the user. If the queue is full
// the entry is dropped with a log line; the caller is never delayed.
func (r *HistoryRecorder) Record(userID, text string) {
	entry := models.HistoryEntry{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	select {
	case r.queue <- entry:
	default:
		log.Printf("history: queue full, dropping entry for user %s", userID)
	}
}

func (r *HistoryRecorder) run() {
	for entry := range r.queue {
		if err := r.store.Append(&entry); err != nil {
			log.Printf("history: failed to append entry for user %s: %v", entry.UserID, err)
		}
	}
	close(r.done)
}

// Close drains the queue and stops the worker. Record must not be
// called after Close.
func (r *HistoryRecorder) Close() {
	close(r.queue)
	<-r.done
}
