package metrics

import (
	"sort"
	"sync"
	"time"
)

// Registry เก็บเวลา execution ต่อ operation แบบ process-scoped
// สร้างจาก container ตอน startup - ไม่ใช่ global ลอยๆ
// ทุก access ผ่าน mutex เดียวกัน
type Registry struct {
	mu      sync.Mutex
	samples map[string][]float64 // วินาที
}

// OperationStats สถิติของ operation เดียว
type OperationStats struct {
	Count     int     `json:"count"`
	AvgTime   float64 `json:"avg_time"`
	MinTime   float64 `json:"min_time"`
	MaxTime   float64 `json:"max_time"`
	TotalTime float64 `json:"total_time"`
}

// SlowOperation operation ที่เฉลี่ยช้ากว่า threshold
type SlowOperation struct {
	Operation string  `json:"operation"`
	AvgTime   float64 `json:"avg_time"`
	Count     int     `json:"count"`
}

func NewRegistry() *Registry {
	return &Registry{
		samples: make(map[string][]float64),
	}
}

// Observe บันทึกเวลา execution หนึ่งครั้ง
func (r *Registry) Observe(operation string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[operation] = append(r.samples[operation], d.Seconds())
}

// Measure จับเวลา fn แล้วบันทึกให้เลย (บันทึกแม้ fn error)
func (r *Registry) Measure(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Observe(operation, time.Since(start))
	return err
}

// Stats สรุปสถิติทุก operation
func (r *Registry) Stats() map[string]OperationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make(map[string]OperationStats, len(r.samples))
	for op, times := range r.samples {
		if len(times) == 0 {
			continue
		}
		s := OperationStats{
			Count:   len(times),
			MinTime: times[0],
			MaxTime: times[0],
		}
		for _, t := range times {
			s.TotalTime += t
			if t < s.MinTime {
				s.MinTime = t
			}
			if t > s.MaxTime {
				s.MaxTime = t
			}
		}
		s.AvgTime = s.TotalTime / float64(s.Count)
		stats[op] = s
	}
	return stats
}

// SlowOperations คืน operations ที่ avg > threshold เรียงจากช้าสุด
func (r *Registry) SlowOperations(threshold float64) []SlowOperation {
	stats := r.Stats()

	var slow []SlowOperation
	for op, s := range stats {
		if s.AvgTime > threshold {
			slow = append(slow, SlowOperation{
				Operation: op,
				AvgTime:   s.AvgTime,
				Count:     s.Count,
			})
		}
	}

	sort.Slice(slow, func(i, j int) bool {
		return slow[i].AvgTime > slow[j].AvgTime
	})
	return slow
}

// Reset ล้างข้อมูลทั้งหมด
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = make(map[string][]float64)
}
