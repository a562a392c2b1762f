package services

import (
	"log"
	"sync"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/models"
)

// QuotaRetentionService periodically deletes quota records whose retention
// deadline has passed, standing in for a document-store TTL. Stale records
// are harmless for correctness (rotation resets them anyway); this just keeps
// the table from growing without bound.
type QuotaRetentionService struct {
	checkInterval time.Duration
	stopChan      chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
}

func NewQuotaRetentionService(checkInterval time.Duration) *QuotaRetentionService {
	if checkInterval <= 0 {
		checkInterval = 6 * time.Hour
	}
	return &QuotaRetentionService{
		checkInterval: checkInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the retention sweep loop
func (s *QuotaRetentionService) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()

	log.Printf("QuotaRetentionService started (interval: %v)", s.checkInterval)
}

// Stop stops the retention sweep loop
func (s *QuotaRetentionService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	log.Println("QuotaRetentionService stopped")
}

func (s *QuotaRetentionService) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Sweep once at startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *QuotaRetentionService) sweep() {
	res := database.DB.Where("expires_at < ?", time.Now().UTC()).Delete(&models.QuotaRecord{})
	if res.Error != nil {
		log.Printf("QuotaRetention: sweep failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("QuotaRetention: removed %d expired quota records", res.RowsAffected)
	}
}
