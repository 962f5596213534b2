package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	test := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"25MB", 25 << 20, false},
		{"64 mb", 64 << 20, false},
		{" 2GB ", 2 << 30, false},
		{"1kb", 1024, false},
		{"", 0, true},
		{"0MB", 0, true},
		{"-5MB", 0, true},
		{"5XB", 0, true},
		{"MB", 0, true},
	}
	for _, tt := range test {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, int64(99), SizeToBytes(tt.in, 99))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, SizeToBytes(tt.in, 99))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "64.00 MB", FormatBytes(64<<20))
}
