// Package store owns the per-sensor append-only binary logs. It maps sensor
// identifiers to log files under a single root directory, linearizes
// concurrent appends per sensor, and answers tail-N queries by seeking from
// the end of the file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sensorstore/sensorstore/utils/io"
	"github.com/sensorstore/sensorstore/utils/log"
)

// FileSuffix is appended to the sensor identifier to name its log file.
const FileSuffix = ".sensor"

// sensorLog is the registry entry for one sensor. mu linearizes appends;
// reads go through an independent handle and never take mu.
type sensorLog struct {
	mu   sync.Mutex
	path string
	cfp  cachedFP
	// size is the log's byte length, maintained on append and read locklessly
	// by Exists. The file's stat size remains authoritative for Tail.
	size atomic.Int64
}

type Store struct {
	rootDir string
	logs    sync.Map // sensor id -> *sensorLog
}

// NewStore opens a store rooted at rootDir, creating the directory when
// absent. Logs already on disk from a previous run are registered so that
// queries keep working across restarts.
func NewStore(rootDir string) (*Store, error) {
	const perm = 0o770
	if err := os.MkdirAll(rootDir, perm); err != nil {
		return nil, fmt.Errorf("create root directory %s: %w", rootDir, err)
	}
	s := &Store{rootDir: rootDir}

	dirlist, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("read root directory %s: %w", rootDir, err)
	}
	for _, entry := range dirlist {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}
		sensorID := strings.TrimSuffix(entry.Name(), FileSuffix)
		if err := validateSensorID(sensorID); err != nil {
			log.Warn("ignoring log file with unusable name %q", entry.Name())
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if info.Size()%io.RecordLength != 0 {
			// Still registered: Tail reports the corruption to the caller.
			log.Warn("log %s has a partial record tail (%d bytes)", entry.Name(), info.Size())
		}
		slog := &sensorLog{path: filepath.Join(rootDir, entry.Name())}
		slog.size.Store(info.Size())
		s.logs.Store(sensorID, slog)
	}
	return s, nil
}

func validateSensorID(sensorID string) error {
	if sensorID == "" || len(sensorID) > io.SensorIDLength {
		return InvalidSensorIDError(sensorID)
	}
	if sensorID == "." || sensorID == ".." {
		return InvalidSensorIDError(sensorID)
	}
	for i := 0; i < len(sensorID); i++ {
		c := sensorID[i]
		if c < 0x20 || c == 0x7f || c == '|' || c == '/' || c == '\\' {
			return InvalidSensorIDError(sensorID)
		}
	}
	return nil
}

func (s *Store) sensorLogFor(sensorID string) *sensorLog {
	if v, ok := s.logs.Load(sensorID); ok {
		return v.(*sensorLog)
	}
	slog := &sensorLog{path: filepath.Join(s.rootDir, sensorID+FileSuffix)}
	v, _ := s.logs.LoadOrStore(sensorID, slog)
	return v.(*sensorLog)
}

// Append encodes one sample and appends it to the sensor's log, creating the
// log on first use. The record is synced to disk before the per-sensor lock
// is released, so a concurrent Tail can never observe a partial record.
func (s *Store) Append(sensorID string, epoch int64, value float64) error {
	if err := validateSensorID(sensorID); err != nil {
		return err
	}
	block, err := io.EncodeRecord(io.Record{SensorID: sensorID, Epoch: epoch, Value: value})
	if err != nil {
		return err
	}

	slog := s.sensorLogFor(sensorID)
	slog.mu.Lock()
	defer slog.mu.Unlock()

	fp, err := slog.cfp.getFP(slog.path)
	if err != nil {
		return IOError(fmt.Sprintf("append %s: %v", sensorID, err))
	}
	if _, err = fp.Write(block); err != nil {
		// The handle may have written part of the block. Drop it so the next
		// append reopens at a known offset.
		slog.cfp.close()
		return IOError(fmt.Sprintf("append %s: %v", sensorID, err))
	}
	if err = fp.Sync(); err != nil {
		slog.cfp.close()
		return IOError(fmt.Sprintf("sync %s: %v", sensorID, err))
	}
	slog.size.Add(io.RecordLength)
	return nil
}

// Tail returns the last n records of the sensor's log, oldest first. n is
// clamped to the number of records on disk; n <= 0 yields an empty result.
// The read costs O(n) regardless of the log's total size.
func (s *Store) Tail(sensorID string, n int) ([]io.Record, error) {
	if err := validateSensorID(sensorID); err != nil {
		return nil, err
	}
	v, ok := s.logs.Load(sensorID)
	if !ok {
		return nil, SensorNotFoundError(sensorID)
	}
	slog := v.(*sensorLog)
	if slog.size.Load() == 0 {
		// Registered but never successfully appended to.
		return nil, SensorNotFoundError(sensorID)
	}

	fp, err := os.Open(slog.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, SensorNotFoundError(sensorID)
		}
		return nil, IOError(fmt.Sprintf("open %s: %v", sensorID, err))
	}
	defer fp.Close()

	fi, err := fp.Stat()
	if err != nil {
		return nil, IOError(fmt.Sprintf("stat %s: %v", sensorID, err))
	}
	size := fi.Size()
	if size%io.RecordLength != 0 {
		return nil, CorruptLogError(sensorID)
	}
	total := int(size / io.RecordLength)
	if n > total {
		n = total
	}
	if n <= 0 {
		return []io.Record{}, nil
	}

	buf := make([]byte, n*io.RecordLength)
	if _, err = fp.ReadAt(buf, size-int64(len(buf))); err != nil {
		return nil, ShortReadError(fmt.Sprintf("%s: %v", sensorID, err))
	}

	records := make([]io.Record, n)
	for i := 0; i < n; i++ {
		records[i], err = io.DecodeRecord(buf[i*io.RecordLength : (i+1)*io.RecordLength])
		if err != nil {
			return nil, ShortReadError(fmt.Sprintf("%s: %v", sensorID, err))
		}
	}
	return records, nil
}

// Exists reports whether the sensor has a log with at least one record. A log
// is created only as part of the first successful append, so the two are
// equivalent.
func (s *Store) Exists(sensorID string) bool {
	v, ok := s.logs.Load(sensorID)
	return ok && v.(*sensorLog).size.Load() > 0
}

// Sensors returns the known sensor identifiers in lexical order.
func (s *Store) Sensors() []string {
	var ids []string
	s.logs.Range(func(key, value any) bool {
		if value.(*sensorLog).size.Load() > 0 {
			ids = append(ids, key.(string))
		}
		return true
	})
	sort.Strings(ids)
	return ids
}

// Close releases all cached append handles. Appends after Close reopen them.
func (s *Store) Close() error {
	var firstErr error
	s.logs.Range(func(_, value any) bool {
		slog := value.(*sensorLog)
		slog.mu.Lock()
		if err := slog.cfp.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		slog.mu.Unlock()
		return true
	})
	return firstErr
}
