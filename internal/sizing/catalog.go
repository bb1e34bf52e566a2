// Package sizing holds the reference glove size catalog used to calibrate
// scans, and the sports a scan can be recorded for.
package sizing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/armascan/internal/detector"
)

// ErrUnknownSize is returned when a size key is not in the catalog.
var ErrUnknownSize = errors.New("unknown glove size")

// ErrUnknownSport is returned when a sport name is not recognized.
var ErrUnknownSport = errors.New("unknown sport")

// GloveSize is a reference size the user declares before scanning.
// PalmWidthCm is derived from the published palm circumference divided by pi.
type GloveSize struct {
	Key             string                      `json:"key"`
	Name            string                      `json:"name"`
	PalmWidthCm     float64                     `json:"palm_width_cm"`
	FingerLengthsCm map[detector.Finger]float64 `json:"finger_lengths_cm"`
	ModelFile       string                      `json:"model_file"`
}

var catalog = []GloveSize{
	{
		Key:         "S",
		Name:        "Small",
		PalmWidthCm: 6.24, // 19.6cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 7.1, detector.Index: 5.2, detector.Middle: 5.3, detector.Ring: 5.1, detector.Pinky: 4.3,
		},
		ModelFile: "arma_small.stl",
	},
	{
		Key:         "M",
		Name:        "Medium",
		PalmWidthCm: 6.46, // 20.3cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 7.3, detector.Index: 5.4, detector.Middle: 5.5, detector.Ring: 5.3, detector.Pinky: 4.4,
		},
		ModelFile: "arma_medium.stl",
	},
	{
		Key:         "L",
		Name:        "Large",
		PalmWidthCm: 6.69, // 21.0cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 7.6, detector.Index: 5.6, detector.Middle: 5.7, detector.Ring: 5.5, detector.Pinky: 4.6,
		},
		ModelFile: "arma_large.stl",
	},
	{
		Key:         "XL",
		Name:        "X-Large",
		PalmWidthCm: 6.91, // 21.7cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 7.8, detector.Index: 5.8, detector.Middle: 5.9, detector.Ring: 5.7, detector.Pinky: 4.7,
		},
		ModelFile: "arma_xl.stl",
	},
	{
		Key:         "2XL",
		Name:        "2X-Large",
		PalmWidthCm: 7.13, // 22.4cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 8.0, detector.Index: 6.0, detector.Middle: 6.1, detector.Ring: 5.8, detector.Pinky: 4.9,
		},
		ModelFile: "arma_2xl.stl",
	},
	{
		Key:         "3XL",
		Name:        "3X-Large",
		PalmWidthCm: 7.36, // 23.1cm circumference
		FingerLengthsCm: map[detector.Finger]float64{
			detector.Thumb: 8.3, detector.Index: 6.2, detector.Middle: 6.3, detector.Ring: 6.0, detector.Pinky: 5.0,
		},
		ModelFile: "arma_3xl.stl",
	},
}

// Catalog returns the built-in sizes, smallest first. The returned values
// are copies and may be modified by the caller.
func Catalog() []GloveSize {
	out := make([]GloveSize, len(catalog))
	for i, s := range catalog {
		out[i] = s.clone()
	}
	return out
}

// Lookup returns the built-in size for key. Keys are case-insensitive.
func Lookup(key string) (GloveSize, error) {
	for _, s := range catalog {
		if strings.EqualFold(s.Key, key) {
			return s.clone(), nil
		}
	}
	return GloveSize{}, fmt.Errorf("%w: %q", ErrUnknownSize, key)
}

func (s GloveSize) clone() GloveSize {
	out := s
	out.FingerLengthsCm = make(map[detector.Finger]float64, len(s.FingerLengthsCm))
	for k, v := range s.FingerLengthsCm {
		out.FingerLengthsCm[k] = v
	}
	return out
}

// Sport is the activity a pair of gloves is being sized for.
type Sport string

const (
	Football Sport = "football"
	Baseball Sport = "baseball"
	Golf     Sport = "golf"
	Lacrosse Sport = "lacrosse"
)

// SportInfo describes a sport option shown to the user.
type SportInfo struct {
	Sport       Sport  `json:"sport"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Sports returns the selectable sports in display order.
func Sports() []SportInfo {
	return []SportInfo{
		{Football, "Football", "Receiver/RB gloves"},
		{Baseball, "Baseball", "Batting gloves"},
		{Golf, "Golf", "Golf glove fit"},
		{Lacrosse, "Lacrosse", "Lacrosse gloves"},
	}
}

// ParseSport validates a sport name. The empty string means no sport.
func ParseSport(s string) (Sport, error) {
	if s == "" {
		return "", nil
	}
	for _, info := range Sports() {
		if strings.EqualFold(string(info.Sport), s) {
			return info.Sport, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
}
