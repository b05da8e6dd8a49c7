package thaiid

import "errors"

// Errors returned by the reader. They are wrapped with context, test them
// with errors.Is.
var (
	// ErrNoReader is returned when PC/SC lists no reader, or not the one asked for.
	ErrNoReader = errors.New("no smart card reader available")

	// ErrConnection is returned when no card answers in the chosen reader.
	ErrConnection = errors.New("card connection failed")

	// ErrTransmission is returned for any failed APDU exchange, including a
	// card pulled out in the middle of a read.
	ErrTransmission = errors.New("apdu transmission failed")

	// ErrStatus is returned in strict mode when the card answers with an error status word.
	ErrStatus = errors.New("card returned an error status")

	// ErrDecoding is returned when a field is not valid TIS-620 or not a date.
	ErrDecoding = errors.New("field decoding failed")

	// ErrIO is returned when the photo cannot be written.
	ErrIO = errors.New("photo write failed")
)
