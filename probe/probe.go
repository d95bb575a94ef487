package probe

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gvisor.dev/gvisor/pkg/tcpip/checksum"
	"gvisor.dev/gvisor/pkg/tcpip/header"

	"github.com/sammko/tcpst2/log"
)

const (
	bufLen   = 65535
	replyTTL = 64
)

// Responder answers ICMPv4 echo requests read from the tun device. It plays
// the userspace side of the point-to-point link: pinging any address routed
// into the device's subnet exercises the full path through the kernel and
// back out again.
type Responder struct {
	rw io.ReadWriter
}

func New(rw io.ReadWriter) *Responder {
	return &Responder{rw: rw}
}

// Run reads packets until the underlying device is closed.
func (r *Responder) Run() error {
	buf := make([]byte, bufLen)
	for {
		n, err := r.rw.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) || errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "read tun device")
		}

		reply := EchoReply(buf[:n])
		if reply == nil {
			continue
		}
		log.Debugf("echo reply to %s", header.IPv4(reply).DestinationAddress())
		if _, err := r.rw.Write(reply); err != nil {
			return errors.Wrap(err, "write tun device")
		}
	}
}

// EchoReply builds the reply for an ICMPv4 echo request, or returns nil when
// pkt is not one. Identifier, sequence number and payload are echoed back
// unchanged.
func EchoReply(pkt []byte) []byte {
	if len(pkt) < header.IPv4MinimumSize || header.IPVersion(pkt) != header.IPv4Version {
		return nil
	}
	ipHdr := header.IPv4(pkt)
	if !ipHdr.IsValid(len(pkt)) || ipHdr.TransportProtocol() != header.ICMPv4ProtocolNumber {
		return nil
	}
	if len(ipHdr.Payload()) < header.ICMPv4MinimumSize {
		return nil
	}
	if header.ICMPv4(ipHdr.Payload()).Type() != header.ICMPv4Echo {
		return nil
	}

	out := make([]byte, len(pkt))
	copy(out, pkt)

	ip := header.IPv4(out)
	src := ip.SourceAddress()
	ip.SetSourceAddress(ip.DestinationAddress())
	ip.SetDestinationAddress(src)
	ip.SetTTL(replyTTL)
	ip.SetChecksum(0)
	ip.SetChecksum(^ip.CalculateChecksum())

	icmp := header.ICMPv4(ip.Payload())
	icmp.SetType(header.ICMPv4EchoReply)
	icmp.SetChecksum(0)
	icmp.SetChecksum(^checksum.Checksum(icmp, 0))
	return out
}
