package scheduler

import (
	"log"
	"os"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the snapshot at 02:00 every night, after the shop is
// long closed. Override with SNAPSHOT_CRON.
const DefaultSpec = "0 2 * * *"

// Scheduler owns the background cron jobs.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers the nightly stock valuation snapshot and kicks off the
// cron loop.
func (s *Scheduler) Start() {
	spec := os.Getenv("SNAPSHOT_CRON")
	if spec == "" {
		spec = DefaultSpec
	}

	if _, err := s.cron.AddFunc(spec, TakeStockSnapshot); err != nil {
		log.Println("❌ Failed to schedule stock snapshot:", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Scheduler started (snapshot:", spec+")")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// TakeStockSnapshot records the current shelf value so the valuation chart
// gets one point per night. Also called at boot if the table is empty, so a
// fresh install charts from day one.
func TakeStockSnapshot() {
	total, itemCount, err := database.GetStockValue()
	if err != nil {
		log.Println("❌ Stock snapshot failed:", err)
		return
	}

	snapshot := models.StockSnapshot{
		TakenAt:    time.Now(),
		TotalValue: total,
		ItemCount:  int(itemCount),
	}

	if err := database.DB.Create(&snapshot).Error; err != nil {
		log.Println("❌ Stock snapshot failed:", err)
		return
	}

	log.Printf("✅ Stock snapshot: %.0f GNF across %d products", total, itemCount)
}
