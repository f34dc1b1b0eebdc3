package storage

import "os"

// DiskUsageBytes reports the on-disk size of the snapshot at path.
// Returns 0 when the snapshot does not exist yet.
func DiskUsageBytes(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
