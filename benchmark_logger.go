package gemmcheck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Record status values
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// Record captures the outcome of one correctness or timing case
type Record struct {
	Name       string        `json:"name"`
	Kernel     string        `json:"kernel"`
	Type       string        `json:"type"`
	Shape      string        `json:"shape"`
	Layout     string        `json:"layout,omitempty"`
	Law        string        `json:"law,omitempty"`
	Status     string        `json:"status"`
	Iterations int           `json:"iterations,omitempty"`
	NsPerOp    float64       `json:"ns_per_op,omitempty"`
	GFLOPS     float64       `json:"gflops,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Error      string        `json:"error,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ResultLogger collects records for a session and keeps them on disk
type ResultLogger struct {
	mu          sync.Mutex
	records     []Record
	sessionFile string
}

// NewResultLogger starts a session file named after session and the current
// time inside dir. An empty dir keeps records in memory only.
func NewResultLogger(dir, session string) (*ResultLogger, error) {
	l := &ResultLogger{}
	if dir == "" {
		return l, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating result directory")
	}
	timestamp := time.Now().Format("20060102_150405")
	l.sessionFile = filepath.Join(dir, fmt.Sprintf("%s_%s.json", session, timestamp))
	return l, l.flush()
}

// Path returns the session file, empty when records stay in memory.
func (l *ResultLogger) Path() string {
	return l.sessionFile
}

// Log appends a record and flushes the session to disk so a crash loses
// nothing already reported.
func (l *ResultLogger) Log(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	l.records = append(l.records, r)
	return l.flush()
}

// Records returns a copy of everything logged so far.
func (l *ResultLogger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.records...)
}

// flush writes records to disk; callers hold mu or own l exclusively
func (l *ResultLogger) flush() error {
	if l.sessionFile == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling records")
	}
	return os.WriteFile(l.sessionFile, data, 0644)
}

// LoadRecords reads a session file.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return records, nil
}

// LatestRecordFile returns the most recently modified session file in dir.
func LatestRecordFile(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	var latest string
	var latestTime time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latest = file
			latestTime = info.ModTime()
		}
	}
	if latest == "" {
		return "", errors.Errorf("no record files in %s", dir)
	}
	return latest, nil
}

// Summary counts records by status.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Summarize counts records by status.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		}
	}
	return s
}

// String formats the summary for display
func (s Summary) String() string {
	return fmt.Sprintf("Total: %d | Passed: %d | Failed: %d | Skipped: %d",
		s.Total, s.Passed, s.Failed, s.Skipped)
}

// Comparison status values
const (
	CompareSame    = "SAME"
	CompareFaster  = "FASTER"
	CompareSlower  = "SLOWER"
	CompareMissing = "MISSING"
	CompareFail    = "FAIL"
)

// Comparison relates one baseline record to the current run
type Comparison struct {
	Name     string
	Status   string
	Baseline float64 // ns/op
	Current  float64 // ns/op
	Speedup  float64
	Message  string
}

// CompareRecords matches records by name. A current run is SLOWER when it
// takes more than regress times the baseline, FASTER below 1/regress, and
// FAIL whenever the current record itself failed.
func CompareRecords(baseline, current []Record, regress float64) []Comparison {
	byName := make(map[string]Record, len(current))
	for _, r := range current {
		byName[r.Name] = r
	}
	out := make([]Comparison, 0, len(baseline))
	for _, base := range baseline {
		cmp := Comparison{Name: base.Name, Baseline: base.NsPerOp}
		cur, ok := byName[base.Name]
		switch {
		case !ok:
			cmp.Status = CompareMissing
			cmp.Message = "missing in current results"
		case cur.Status == StatusFail:
			cmp.Status = CompareFail
			cmp.Message = cur.Error
		default:
			cmp.Current = cur.NsPerOp
			cmp.Status = CompareSame
			if base.NsPerOp > 0 && cur.NsPerOp > 0 {
				cmp.Speedup = base.NsPerOp / cur.NsPerOp
				switch {
				case cmp.Speedup < 1/regress:
					cmp.Status = CompareSlower
					cmp.Message = fmt.Sprintf("%.2fx slower", 1/cmp.Speedup)
				case cmp.Speedup > regress:
					cmp.Status = CompareFaster
					cmp.Message = fmt.Sprintf("%.2fx faster", cmp.Speedup)
				}
			}
		}
		out = append(out, cmp)
	}
	return out
}
