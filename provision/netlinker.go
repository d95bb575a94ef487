package provision

import (
	"github.com/vishvananda/netlink"

	"github.com/sammko/tcpst2/device"
)

// Netlinker abstracts the netlink operations the provisioner issues, so the
// configuration sequence can be tested without touching the host interface
// table.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	LinkSetMTU(link netlink.Link, mtu int) error
	LinkSetUp(link netlink.Link) error
	LinkDel(link netlink.Link) error
}

// RealNetlinker forwards to the netlink package.
type RealNetlinker struct{}

func (RealNetlinker) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (RealNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return netlink.AddrAdd(link, addr)
}

func (RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (RealNetlinker) LinkSetMTU(link netlink.Link, mtu int) error {
	return netlink.LinkSetMTU(link, mtu)
}

func (RealNetlinker) LinkSetUp(link netlink.Link) error {
	return netlink.LinkSetUp(link)
}

func (RealNetlinker) LinkDel(link netlink.Link) error {
	return netlink.LinkDel(link)
}

// DeviceManager abstracts TUN device creation for the same reason.
type DeviceManager interface {
	Create(name string, owner uint32) error
}

type realDeviceManager struct{}

func (realDeviceManager) Create(name string, owner uint32) error {
	return device.Create(name, owner)
}
