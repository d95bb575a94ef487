package provision

import (
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"

	"github.com/sammko/tcpst2/log"
)

// Settings is the provisioning target.
type Settings struct {
	Name    string
	Address string // IPv4 CIDR, e.g. 192.168.22.100/24
	MTU     int    // 0 keeps the kernel default
}

// Provisioner drives the device lifecycle: create, address, bring up,
// report, tear down. Steps are fail-fast; effects of completed steps are
// left in place, matching what a sequence of ip(8) commands would do.
type Provisioner struct {
	nl  Netlinker
	dev DeviceManager
}

func New() *Provisioner {
	return &Provisioner{nl: RealNetlinker{}, dev: realDeviceManager{}}
}

// NewWithDeps injects the netlink and device layers, for tests.
func NewWithDeps(nl Netlinker, dev DeviceManager) *Provisioner {
	return &Provisioner{nl: nl, dev: dev}
}

// Up provisions the TUN device owned by inv and returns its resulting state.
func (p *Provisioner) Up(inv Invoker, s Settings) (*Status, error) {
	addr, err := netlink.ParseAddr(s.Address)
	if err != nil {
		return nil, errors.Wrapf(err, "parse address %q", s.Address)
	}

	// ip tuntap add refuses to reuse an existing link; do the same. Only a
	// definite not-found lets the sequence proceed, a failing netlink query
	// must not be mistaken for a free name.
	var notFound netlink.LinkNotFoundError
	if _, err := p.nl.LinkByName(s.Name); err == nil {
		return nil, errors.Errorf("device %s already exists", s.Name)
	} else if !errors.As(err, &notFound) {
		return nil, errors.Wrapf(err, "check for existing %s", s.Name)
	}

	log.Infof("creating TUN device %s owned by %s (uid %d)", s.Name, inv.Name, inv.UID)
	if err := p.dev.Create(s.Name, inv.UID); err != nil {
		return nil, errors.Wrapf(err, "create %s", s.Name)
	}

	link, err := p.nl.LinkByName(s.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s after creation", s.Name)
	}

	log.Infof("assigning %s to %s", s.Address, s.Name)
	if err := p.nl.AddrAdd(link, addr); err != nil {
		return nil, errors.Wrapf(err, "assign %s to %s", s.Address, s.Name)
	}

	if s.MTU > 0 {
		log.Debugf("setting %s mtu to %d", s.Name, s.MTU)
		if err := p.nl.LinkSetMTU(link, s.MTU); err != nil {
			return nil, errors.Wrapf(err, "set %s mtu %d", s.Name, s.MTU)
		}
	}

	log.Infof("bringing %s up", s.Name)
	if err := p.nl.LinkSetUp(link); err != nil {
		return nil, errors.Wrapf(err, "set %s up", s.Name)
	}

	return p.Status(s.Name)
}

// Down deletes the device.
func (p *Provisioner) Down(name string) error {
	link, err := p.nl.LinkByName(name)
	if err != nil {
		return errors.Wrapf(err, "device %s not found", name)
	}
	log.Infof("deleting device %s", name)
	if err := p.nl.LinkDel(link); err != nil {
		return errors.Wrapf(err, "delete %s", name)
	}
	return nil
}

// Status queries the current state of the device.
func (p *Provisioner) Status(name string) (*Status, error) {
	link, err := p.nl.LinkByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s not found", name)
	}

	attrs := link.Attrs()
	st := &Status{
		Name:      attrs.Name,
		Kind:      link.Type(),
		Index:     attrs.Index,
		MTU:       attrs.MTU,
		Up:        attrs.Flags&net.FlagUp != 0,
		OperState: attrs.OperState.String(),
	}

	addrs, err := p.nl.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, errors.Wrapf(err, "list addresses of %s", name)
	}
	for _, a := range addrs {
		st.Addrs = append(st.Addrs, a.IPNet.String())
	}
	return st, nil
}
