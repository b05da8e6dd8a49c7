package iso7816

import (
	"testing"
)

// Status words a Thai ID card answers with during a read.
var (
	swSelected    = NewStatusWord(0x61, 0x0A) // applet selected, 10 bytes waiting
	swPhotoBlock  = NewStatusWord(0x61, 0xFF) // one photo block waiting
	swBadTemplate = SW_ERR_INCORRECT_PARAMS_P1P2
	swPastEOF     = SW_ERR_WRONG_P1P2
)

func TestStatusWord_Classification(t *testing.T) {
	tests := []struct {
		name      string
		sw        StatusWord
		isSuccess bool
		isWarning bool
		isError   bool
		isTrig    bool
		isCounter bool
	}{
		{"Data returned", SW_NO_ERROR, true, false, false, false, false},
		{"Applet selected", swSelected, true, false, false, false, false},
		{"Photo block ready", swPhotoBlock, true, false, false, false, false},
		{"Wrong GET RESPONSE P2", swBadTemplate, false, false, true, false, false},
		{"Offset past end of file", swPastEOF, false, false, true, false, false},
		{"Read before select", SW_ERR_CMD_NOT_ALLOWED_NO_EF, false, false, true, false, false},
		{"End of file", SW_WARN_EOF_REACHED, false, true, false, false, false},
		{"Triggering lower bound", NewStatusWord(0x62, 0x02), false, true, false, true, false},
		{"Triggering upper bound", NewStatusWord(0x62, 0x80), false, true, false, true, false},
		{"Triggering out of range", NewStatusWord(0x62, 0x81), false, true, false, false, false},
		{"Error triggering", NewStatusWord(0x64, 0x10), false, false, true, true, false},
		{"Counter 2", NewStatusWord(0x63, 0xC2), false, true, false, false, true},
		{"Not a counter", NewStatusWord(0x63, 0x81), false, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw := tt.sw
			if got := sw.IsSuccess(); got != tt.isSuccess {
				t.Errorf("%04X IsSuccess = %v, want %v", uint16(sw), got, tt.isSuccess)
			}
			if got := sw.IsWarning(); got != tt.isWarning {
				t.Errorf("%04X IsWarning = %v, want %v", uint16(sw), got, tt.isWarning)
			}
			if got := sw.IsError(); got != tt.isError {
				t.Errorf("%04X IsError = %v, want %v", uint16(sw), got, tt.isError)
			}
			if got := sw.IsTriggeringByCard(); got != tt.isTrig {
				t.Errorf("%04X IsTriggeringByCard = %v, want %v", uint16(sw), got, tt.isTrig)
			}
			if got := sw.IsCounter(); got != tt.isCounter {
				t.Errorf("%04X IsCounter = %v, want %v", uint16(sw), got, tt.isCounter)
			}
		})
	}
}

func TestStatusWord_Verbose(t *testing.T) {
	tests := []struct {
		sw   StatusWord
		want string
	}{
		{SW_NO_ERROR, "[9000] SW_NO_ERROR"},
		{swSelected, "Process completed, 10 bytes available"},
		{swPhotoBlock, "Process completed, 255 bytes available"},
		{swBadTemplate, "[6A86] SW_ERR_INCORRECT_PARAMS_P1P2"},
		{swPastEOF, "[6B00] SW_ERR_WRONG_P1P2"},
		{NewStatusWord(0x6C, 0x0D), "Wrong length, correct Le is 13"},
		{NewStatusWord(0x62, 0x10), "Warning (Triggering): Card expects query of 16 bytes"},
		{NewStatusWord(0x64, 0x02), "Error/Abort (Triggering): Card expects query of 2 bytes"},
		{NewStatusWord(0x63, 0xC3), "Warning: State changed, counter = 3"},
		{NewStatusWord(0x69, 0x99), "[6999] Checking Error: Command not allowed"},
		{NewStatusWord(0x90, 0x01), "[9001] Unknown Status"},
	}

	for _, tt := range tests {
		if got := tt.sw.Verbose(); got != tt.want {
			t.Errorf("Verbose(%04X) = %q, want %q", uint16(tt.sw), got, tt.want)
		}
	}
}

func TestStatusWord_String(t *testing.T) {
	tests := []struct {
		sw   StatusWord
		want string
	}{
		{SW_NO_ERROR, "SW_NO_ERROR"},
		{swBadTemplate, "SW_ERR_INCORRECT_PARAMS_P1P2"},
		{swSelected, "StatusWord(0x610A)"},
	}

	for _, tt := range tests {
		if got := tt.sw.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
