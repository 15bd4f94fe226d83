// Package pathdump сохраняет собранные пути в сжатый JSON для разбора и воспроизведения.
package pathdump

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/klauspost/compress/zstd"
)

// Version - версия формата дампа
const Version = 1

// MovementRecord - одно перемещение пути
type MovementRecord struct {
	Type    string     `json:"type"`
	Src     vec.Vec3   `json:"src"`
	Dest    vec.Vec3   `json:"dest"`
	Cost    float64    `json:"cost"`
	ToBreak []vec.Vec3 `json:"to_break,omitempty"`
	ToPlace []vec.Vec3 `json:"to_place,omitempty"`
}

// Dump - снимок пути
type Dump struct {
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	Goal            string           `json:"goal"`
	Positions       []vec.Vec3       `json:"positions"`
	Movements       []MovementRecord `json:"movements"`
	TotalCost       float64          `json:"total_cost"`
	NodesConsidered int              `json:"nodes_considered"`
	Truncated       bool             `json:"truncated"`
}

// FromPath снимает дамп с собранного пути. Ячейки для ломки и установки
// берутся по состоянию мира на момент вызова.
func FromPath(p *calc.Path) *Dump {
	d := &Dump{
		Version:         Version,
		CreatedAt:       time.Now().UTC(),
		Goal:            p.Goal().String(),
		Positions:       p.Positions(),
		TotalCost:       p.TotalCost(),
		NodesConsidered: p.NumNodesConsidered(),
		Truncated:       p.Truncated(),
	}
	w := p.Context().World
	for _, m := range p.Movements() {
		d.Movements = append(d.Movements, MovementRecord{
			Type:    m.Type.String(),
			Src:     m.Src,
			Dest:    m.Dest,
			Cost:    m.Cost(),
			ToBreak: m.ToBreak(w),
			ToPlace: m.ToPlace(w),
		})
	}
	return d
}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

// Encode сериализует дамп в JSON и сжимает zstd
func Encode(d *Dump) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("pathdump: сериализация: %w", err)
	}
	return encoder.EncodeAll(data, nil), nil
}

// Decode разжимает и разбирает дамп
func Decode(data []byte) (*Dump, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("pathdump: распаковка: %w", err)
	}
	var d Dump
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("pathdump: разбор: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("pathdump: неподдерживаемая версия %d", d.Version)
	}
	return &d, nil
}

// Write пишет сжатый дамп пути в поток
func Write(w io.Writer, p *calc.Path) error {
	data, err := Encode(FromPath(p))
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("pathdump: запись: %w", err)
	}
	return nil
}

// Read читает сжатый дамп из потока
func Read(r io.Reader) (*Dump, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pathdump: чтение: %w", err)
	}
	return Decode(data)
}
