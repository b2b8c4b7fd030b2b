//go:build unix

package store

import "golang.org/x/sys/unix"

func adviseRandom(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := unix.Madvise(data, unix.MADV_RANDOM)
	if err == unix.EINVAL {
		return nil
	}
	return err
}
