package api

import "github.com/ayusman/armascan/internal/scan"

// Scanner is the scan pipeline as seen by the API.
type Scanner interface {
	Status() scan.Status
	Start() error
	Stop()
	Reset() error
	SelectSize(key string) error
	SelectSport(name string) error
	SetMirrored(mirrored bool) error
}
