package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth represents real-time process and storage figures.
type SysHealth struct {
	AllocMB       uint64
	SysMB         uint64
	NumGC         uint32
	Goroutines    int
	StoreBytes    int64
	StoreQuota    int64
	DatabaseBytes int64
}

// QuotaUsedPercent is the share of the structured store quota in use.
func (h SysHealth) QuotaUsedPercent() float64 {
	if h.StoreQuota <= 0 {
		return 0
	}
	return float64(h.StoreBytes) * 100 / float64(h.StoreQuota)
}

// GetSysHealth collects real-time health data for the structured store
// directory and the image database file.
func GetSysHealth(storePath string, storeQuota int64, databasePath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:       m.Alloc / 1024 / 1024,
		SysMB:         m.Sys / 1024 / 1024,
		NumGC:         m.NumGC,
		Goroutines:    runtime.NumGoroutine(),
		StoreBytes:    dirSize(storePath),
		StoreQuota:    storeQuota,
		DatabaseBytes: dirSize(databasePath),
	}
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// HumanBytes formats a byte count with a binary unit suffix.
func HumanBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
