//go:build linux

package device

import (
	"io"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const tunPath = "/dev/net/tun"

type ifReq struct {
	Name  [unix.IFNAMSIZ]byte
	Flags uint16
	pad   [40 - unix.IFNAMSIZ - 2]byte
}

func checkName(name string) error {
	if name == "" {
		return errors.New("device name is empty")
	}
	if len(name) >= unix.IFNAMSIZ {
		return errors.Errorf("device name %q longer than %d characters", name, unix.IFNAMSIZ-1)
	}
	return nil
}

// attach opens the tun clone device and binds the fd to the named interface.
// The interface is created if it does not exist yet.
func attach(name string) (*os.File, error) {
	// O_NONBLOCK keeps the fd on the runtime poller so Close unblocks a
	// pending Read (golang/go#30426).
	f, err := os.OpenFile(tunPath, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", tunPath)
	}

	var req ifReq
	copy(req.Name[:unix.IFNAMSIZ-1], name)
	req.Flags = unix.IFF_TUN | unix.IFF_NO_PI

	if _, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		f.Fd(),
		unix.TUNSETIFF,
		uintptr(unsafe.Pointer(&req)),
	); errno != 0 {
		_ = f.Close()
		return nil, errors.Wrapf(errno, "TUNSETIFF %s", name)
	}
	return f, nil
}

// Create makes a persistent TUN device owned by the given uid. The device
// outlives this process; address and link state are configured separately.
func Create(name string, owner uint32) error {
	if err := checkName(name); err != nil {
		return err
	}
	f, err := attach(name)
	if err != nil {
		return err
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, unix.TUNSETOWNER, int(owner)); err != nil {
		return errors.Wrapf(err, "TUNSETOWNER %s uid %d", name, owner)
	}
	if err := unix.IoctlSetInt(fd, unix.TUNSETPERSIST, 1); err != nil {
		return errors.Wrapf(err, "TUNSETPERSIST %s", name)
	}
	return nil
}

// Open attaches to an existing TUN device for packet I/O. Works without
// root when the device is owned by the calling user.
func Open(name string) (io.ReadWriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return attach(name)
}
