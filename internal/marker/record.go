package marker

import (
	"errors"
	"fmt"
	"math"

	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/pkg/collections"
)

// ErrCorruptRecord is returned when persisted bytes are not a marker list.
var ErrCorruptRecord = errors.New("corrupt marker record")

// Record is the durable form of a Marker. Colours are stored as four
// normalized sRGB components.
type Record struct {
	Value           float64   `json:"value" yaml:"value" cbor:"value"`
	Length          float64   `json:"length" yaml:"length" cbor:"length"`
	LineWidth       float64   `json:"lineWidth" yaml:"lineWidth" cbor:"lineWidth"`
	ColorComponents []float64 `json:"colorComponents" yaml:"colorComponents" cbor:"colorComponents"`
}

// rawRecord detects missing keys on decode.
type rawRecord struct {
	Value           *float64   `json:"value" yaml:"value" cbor:"value"`
	Length          *float64   `json:"length" yaml:"length" cbor:"length"`
	LineWidth       *float64   `json:"lineWidth" yaml:"lineWidth" cbor:"lineWidth"`
	ColorComponents *[]float64 `json:"colorComponents" yaml:"colorComponents" cbor:"colorComponents"`
}

// ToRecord converts a marker to its durable form.
func ToRecord(m Marker) Record {
	return Record{
		Value:           m.Value,
		Length:          m.Length,
		LineWidth:       m.LineWidth,
		ColorComponents: m.Color.Components(),
	}
}

// Marker converts the record back. Fewer than four colour components
// decode to the default marker colour.
func (r Record) Marker() Marker {
	color, ok := knob.ColorFromComponents(r.ColorComponents)
	if !ok {
		color = DefaultStyle().Color
	}

	return Marker{
		Value:     r.Value,
		Color:     color,
		Length:    r.Length,
		LineWidth: r.LineWidth,
	}
}

// Encode serializes markers, in order, as an array of records.
func Encode(markers []Marker, c Codec) ([]byte, error) {
	if c == nil {
		c = JSONCodec{}
	}

	data, err := c.Marshal(collections.Apply(markers, ToRecord))
	if err != nil {
		return nil, fmt.Errorf("failed to encode markers: %w", err)
	}

	return data, nil
}

// Decode parses an array of records. Every record must carry all four keys
// with finite numbers.
func Decode(data []byte, c Codec) ([]Marker, error) {
	if c == nil {
		c = JSONCodec{}
	}

	var raw []rawRecord
	if err := c.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}

	markers := make([]Marker, 0, len(raw))
	for i, rr := range raw {
		if rr.Value == nil || rr.Length == nil || rr.LineWidth == nil || rr.ColorComponents == nil {
			return nil, fmt.Errorf("%w: record %d is missing keys", ErrCorruptRecord, i)
		}

		if !finite(*rr.Value, *rr.Length, *rr.LineWidth) || !finite(*rr.ColorComponents...) {
			return nil, fmt.Errorf("%w: record %d has a non-finite number", ErrCorruptRecord, i)
		}

		markers = append(markers, Record{
			Value:           *rr.Value,
			Length:          *rr.Length,
			LineWidth:       *rr.LineWidth,
			ColorComponents: *rr.ColorComponents,
		}.Marker())
	}

	return markers, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
