package cubism

import "fmt"

// Version is the packed core version: major in the top byte, minor in the
// next byte and patch in the low 16 bits.
type Version uint32

func (v Version) Major() uint8 {
	return uint8((v & 0xFF000000) >> 24)
}

func (v Version) Minor() uint8 {
	return uint8((v & 0x00FF0000) >> 16)
}

func (v Version) Patch() uint16 {
	return uint16(v & 0xFFFF)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

type MocVersion uint32

const (
	MocVersionUnknown MocVersion = iota
	MocVersion30
	MocVersion33
	MocVersion40
	MocVersion42
)

func (v MocVersion) String() string {
	switch v {
	case MocVersion30:
		return "3.0"
	case MocVersion33:
		return "3.3"
	case MocVersion40:
		return "4.0"
	case MocVersion42:
		return "4.2"
	case MocVersionUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("moc(%d)", uint32(v))
	}
}
