package boards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFQBN(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FQBN
		wantErr bool
	}{
		{name: "plain", in: "arduino:avr:uno", want: FQBN{Package: "arduino", Architecture: "avr", BoardID: "uno"}},
		{name: "with options", in: "esp8266:esp8266:generic:xtal=160,baud=921600", want: FQBN{Package: "esp8266", Architecture: "esp8266", BoardID: "generic", Options: "xtal=160,baud=921600"}},
		{name: "too short", in: "arduino:avr", wantErr: true},
		{name: "empty part", in: "arduino::uno", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFQBN(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFQBN)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBoardCoreID(t *testing.T) {
	core, err := Board{FQBN: "arduino:samd:mkr1000"}.CoreID()
	require.NoError(t, err)
	require.Equal(t, "arduino:samd", core)

	core, err = Board{Core: "arduino:avr", FQBN: "ignored"}.CoreID()
	require.NoError(t, err)
	require.Equal(t, "arduino:avr", core)

	_, err = Board{FQBN: "bogus"}.CoreID()
	require.ErrorIs(t, err, ErrInvalidFQBN)
}

func TestBoardValidate(t *testing.T) {
	require.NoError(t, Board{FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0"}.Validate())
	require.Error(t, Board{FQBN: "arduino:avr:uno"}.Validate())
	require.ErrorIs(t, Board{FQBN: "uno", Address: "COM3"}.Validate(), ErrInvalidFQBN)
}

func TestBoardString(t *testing.T) {
	require.Equal(t, "arduino:avr:uno@/dev/ttyACM0", Board{FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0"}.String())
	require.Equal(t, "arduino:avr:uno", Board{FQBN: "arduino:avr:uno"}.String())
}
