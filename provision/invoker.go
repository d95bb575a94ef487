package provision

import (
	"os"
	"os/user"
	"strconv"

	"github.com/pkg/errors"
)

// Invoker is the non-root user that requested privilege elevation. The
// created TUN device is owned by this user, not by root, so the experiment
// binaries can attach to it unprivileged afterwards.
type Invoker struct {
	Name string
	UID  uint32
}

// RequireRoot rejects execution without an effective uid of 0.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.New("must run as root, try sudo")
	}
	return nil
}

// ResolveInvoker identifies the invoking user from the environment sudo
// leaves behind. SUDO_UID is preferred; SUDO_USER is resolved through the
// user database as a fallback.
func ResolveInvoker() (Invoker, error) {
	if s := os.Getenv("SUDO_UID"); s != "" {
		uid, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return Invoker{}, errors.Wrapf(err, "malformed SUDO_UID %q", s)
		}
		name := os.Getenv("SUDO_USER")
		if name == "" {
			name = s
		}
		return Invoker{Name: name, UID: uint32(uid)}, nil
	}

	if name := os.Getenv("SUDO_USER"); name != "" {
		u, err := user.Lookup(name)
		if err != nil {
			return Invoker{}, errors.Wrapf(err, "lookup SUDO_USER %q", name)
		}
		uid, err := strconv.ParseUint(u.Uid, 10, 32)
		if err != nil {
			return Invoker{}, errors.Wrapf(err, "malformed uid %q for user %s", u.Uid, name)
		}
		return Invoker{Name: name, UID: uint32(uid)}, nil
	}

	return Invoker{}, errors.New("cannot determine the invoking user: SUDO_UID and SUDO_USER are unset, run through sudo")
}
