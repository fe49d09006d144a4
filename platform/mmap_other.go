//go:build !linux && !darwin

package platform

func mapAnonymous(size int) ([]byte, bool, error) {
	return make([]byte, size), false, nil
}

func unmap([]byte) error {
	return nil
}
