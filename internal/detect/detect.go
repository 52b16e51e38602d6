// Package detect peeks an archive's magic prefix and selects a decoder
// variant. It never advances reader state beyond the peek itself; decoders
// re-open the reader from zero.
package detect

import "encoding/binary"

// Format identifies which decoder variant an archive matched.
type Format int

const (
	Unknown Format = iota
	VPK
	VPKDirOnly
	UnrealEngine3
	UnrealEngine45
	Generic
)

func (f Format) String() string {
	switch f {
	case VPK:
		return "Source Engine"
	case VPKDirOnly:
		return "Source Engine (directory-only)"
	case UnrealEngine3:
		return "Unreal Engine 3"
	case UnrealEngine45:
		return "Unreal Engine 4/5"
	case Generic:
		return "Generic PAK"
	default:
		return "Unknown"
	}
}

const (
	magicVPK       uint32 = 0x55AA1234
	magicVPKDir    uint32 = 0x00465456
	ue3MagicLen           = 4
)

var ue3Magic = [4]byte{0x50, 0x61, 0x6B, 0x00} // "Pak\x00"

// Detect inspects the first 4 bytes of header and returns the matching
// format. If fewer than 4 bytes are available, Unknown is returned — there
// isn't even enough data to tell this apart from Generic. A 4-byte prefix
// that matches none of the known magics is Generic, per spec.md §4.2's
// "none of the above" row.
func Detect(header []byte) Format {
	if len(header) < 4 {
		return Unknown
	}

	magic := binary.LittleEndian.Uint32(header[:4])
	switch magic {
	case magicVPK:
		return VPK
	case magicVPKDir:
		return VPKDirOnly
	}

	if header[0] == 0x50 && [4]byte{header[0], header[1], header[2], header[3]} == ue3Magic {
		return UnrealEngine3
	}

	if header[0] == 'P' && header[1] == 'A' && header[2] == 'K' {
		return UnrealEngine45
	}

	return Generic
}
