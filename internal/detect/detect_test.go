package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Format
	}{
		{"vpk", []byte{0x34, 0x12, 0xAA, 0x55}, VPK},
		{"vpk dir", []byte{0x56, 0x54, 0x46, 0x00}, VPKDirOnly},
		{"ue3", []byte{'P', 'a', 'k', 0x00}, UnrealEngine3},
		{"ue45", []byte{'P', 'A', 'K', 0x07}, UnrealEngine45},
		{"generic fallback", []byte{0x01, 0x02, 0x03, 0x04}, Generic},
		{"too short", []byte{0x01, 0x02}, Unknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Detect(c.header))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "Source Engine", VPK.String())
	assert.Equal(t, "Unreal Engine 3", UnrealEngine3.String())
	assert.Equal(t, "Unknown", Unknown.String())
}
