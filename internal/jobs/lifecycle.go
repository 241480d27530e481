package jobs

import (
	"log"
	"time"

	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

// LifecycleJob expires conversations that have gone quiet. It owns the only
// terminal transition (active -> expired) and never touches the scam or
// agent flags.
type LifecycleJob struct {
	store     storage.Store
	ttl       time.Duration
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewLifecycleJob creates a new conversation lifecycle job
func NewLifecycleJob(store storage.Store, ttl time.Duration) *LifecycleJob {
	return &LifecycleJob{
		store:    store,
		ttl:      ttl,
		interval: time.Hour,
		stop:     make(chan struct{}),
	}
}

// Start begins the background expiry loop
func (j *LifecycleJob) Start() {
	if j.isRunning {
		log.Println("Lifecycle job already running")
		return
	}
	j.isRunning = true
	log.Printf("Starting conversation lifecycle job (ttl=%s)", j.ttl)

	go j.run()
}

// Stop halts the expiry loop
func (j *LifecycleJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping conversation lifecycle job...")
}

func (j *LifecycleJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			j.ExpireStaleConversations()
		}
	}
}

// ExpireStaleConversations marks every active conversation without a message
// inside the TTL window as expired.
func (j *LifecycleJob) ExpireStaleConversations() {
	cutoff := time.Now().Add(-j.ttl)
	stale, err := j.store.GetStaleActiveConversations(cutoff)
	if err != nil {
		log.Printf("Error finding stale conversations: %v", err)
		return
	}

	expired := 0
	for _, conv := range stale {
		if err := j.store.UpdateConversationStatus(conv.ConversationID, models.ConversationExpired); err != nil {
			log.Printf("Error expiring conversation %s: %v", conv.ConversationID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("⏳ Expired %d inactive conversation(s)", expired)
	}
}
