package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-booking/internal/config"
	"github.com/clinova/clinic-booking/internal/db"
)

type SimConfig struct {
	APIBaseURL   string
	Workers      int
	HotBookers   int
	SlotLimit    int
	PatientLimit int
	PostgresDSN  string
}

type slotRef struct {
	DoctorID  string
	Date      string
	SlotStart string
	SlotEnd   string
}

type patientRef struct {
	Name string
	DOB  string
}

type DataPool struct {
	Patients []patientRef
	Slots    []slotRef
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	mu        sync.Mutex
	Latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p95
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	hotSlot OperationMetrics
	spread  OperationMetrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadSimConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d patients, %d open slots", len(dataPool.Patients), len(dataPool.Slots))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.RunHotSlot()
	sim.RunSpread()
	sim.PrintReport()
}

func loadSimConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	return SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Workers:      getInt("SIM_WORKERS", 10),
		HotBookers:   getInt("SIM_HOT_BOOKERS", 20),
		SlotLimit:    getInt("SIM_SLOT_LIMIT", 500),
		PatientLimit: getInt("SIM_PATIENT_LIMIT", 50),
		PostgresDSN:  baseCfg.PostgresDSN,
	}
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT first_name || ' ' || last_name, dob FROM patients LIMIT $1
	`, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p patientRef
		if err := rows.Scan(&p.Name, &p.DOB); err != nil {
			return nil, err
		}
		dataPool.Patients = append(dataPool.Patients, p)
	}

	rows, err = pool.Query(ctx, `
		SELECT doctor_id, date, slot_start, slot_end
		FROM availability_slots
		WHERE booked = FALSE
		LIMIT $1
	`, cfg.SlotLimit)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s slotRef
		if err := rows.Scan(&s.DoctorID, &s.Date, &s.SlotStart, &s.SlotEnd); err != nil {
			return nil, err
		}
		dataPool.Slots = append(dataPool.Slots, s)
	}

	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded, run cmd/seed first")
	}
	if len(dataPool.Slots) == 0 {
		return nil, fmt.Errorf("no open slots loaded, run cmd/seed first")
	}

	return dataPool, nil
}

// RunHotSlot points every worker at the same slot key. Exactly one
// booking must succeed; everyone else must observe a conflict.
func (s *Simulator) RunHotSlot() {
	target := s.pool.Slots[0]
	log.Printf("hot-slot run: %d bookers targeting %s %s %s-%s",
		s.config.HotBookers, target.DoctorID, target.Date, target.SlotStart, target.SlotEnd)

	var wg sync.WaitGroup
	for i := 0; i < s.config.HotBookers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			patient := s.pool.Patients[workerID%len(s.pool.Patients)]
			s.doBooking(&s.hotSlot, patient, target)
		}(i)
	}
	wg.Wait()

	if s.hotSlot.Success > 1 {
		log.Fatalf("INVARIANT VIOLATED: %d bookings succeeded for one slot", s.hotSlot.Success)
	}
	log.Printf("hot-slot run complete: success=%d conflict=%d error=%d",
		s.hotSlot.Success, s.hotSlot.Conflict, s.hotSlot.Error)
}

// RunSpread books random distinct slots from the pool.
func (s *Simulator) RunSpread() {
	log.Printf("spread run: %d workers over %d slots", s.config.Workers, len(s.pool.Slots)-1)

	var next int64 // index 0 was the hot slot

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for {
				idx := int(atomic.AddInt64(&next, 1))
				if idx >= len(s.pool.Slots) {
					return
				}
				patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]
				s.doBooking(&s.spread, patient, s.pool.Slots[idx])
			}
		}(i)
	}
	wg.Wait()

	log.Printf("spread run complete: success=%d conflict=%d error=%d",
		s.spread.Success, s.spread.Conflict, s.spread.Error)
}

func (s *Simulator) doBooking(m *OperationMetrics, patient patientRef, slot slotRef) {
	body, _ := json.Marshal(map[string]string{
		"patient_name": patient.Name,
		"dob":          patient.DOB,
		"doctor_id":    slot.DoctorID,
		"date":         slot.Date,
		"slot_start":   slot.SlotStart,
		"slot_end":     slot.SlotEnd,
	})

	start := time.Now()
	resp, err := s.client.Post(s.config.APIBaseURL+"/bookings", "application/json", bytes.NewReader(body))
	latency := time.Since(start)

	if err != nil {
		m.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		m.Record(latency, true, false)
	case http.StatusConflict:
		m.Record(latency, false, true)
	default:
		m.Record(latency, false, false)
	}
}

func (s *Simulator) PrintReport() {
	fmt.Println()
	fmt.Println("=== Simulation Report ===")
	printMetrics("hot-slot bookings", &s.hotSlot)
	printMetrics("spread bookings", &s.spread)
}

func printMetrics(name string, m *OperationMetrics) {
	avg, min, max, p95 := m.Stats()
	fmt.Printf("%-20s total=%d success=%d conflict=%d error=%d\n",
		name, m.Total, m.Success, m.Conflict, m.Error)
	fmt.Printf("%-20s avg=%s min=%s max=%s p95=%s\n", "", avg, min, max, p95)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
