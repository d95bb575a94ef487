//go:build !linux

package device

import (
	"io"

	"github.com/pkg/errors"
)

func Create(name string, owner uint32) error {
	return errors.New("tun devices are only supported on linux")
}

func Open(name string) (io.ReadWriteCloser, error) {
	return nil, errors.New("tun devices are only supported on linux")
}
