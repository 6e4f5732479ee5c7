package gamedata

import (
	"fmt"
	"sort"

	"github.com/samdwyer/dungeondepths/data"
	"github.com/samdwyer/dungeondepths/internal/world"
)

// MapSettings are the base map parameters.
type MapSettings struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	MaxRooms    int `json:"max_rooms"`
	MinRoomSize int `json:"min_room_size"`
	MaxRoomSize int `json:"max_room_size"`
}

// DepthSetting overrides map settings from a given depth downwards.
// Nil fields inherit the base value.
type DepthSetting struct {
	Depth       int  `json:"depth"`
	MaxRooms    *int `json:"max_rooms,omitempty"`
	MinRoomSize *int `json:"min_room_size,omitempty"`
	MaxRoomSize *int `json:"max_room_size,omitempty"`
}

// Procgen is the parsed procedural-generation settings catalog.
type Procgen struct {
	Map           MapSettings    `json:"map"`
	DepthSettings []DepthSetting `json:"depth_settings"`
}

// LoadProcgen loads settings from path, or the embedded default when path is empty.
// Both the map and depth_settings keys must be present.
func LoadProcgen(path string) (*Procgen, error) {
	fsys, name := source(path, data.ProcgenFile)
	p, err := Load[Procgen](fsys, name)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MustLoadProcgen loads the embedded settings, panicking on error.
func MustLoadProcgen() *Procgen {
	p := MustLoad[Procgen](data.FS(), data.ProcgenFile)
	return &p
}

func (p *Procgen) requiredKeys() []string {
	return []string{"map", "depth_settings"}
}

// validate orders the depth settings and checks that the base map and every
// depth override yield usable generation parameters.
func (p *Procgen) validate() error {
	for _, ds := range p.DepthSettings {
		if ds.Depth < 1 {
			return fmt.Errorf("depth setting for depth %d, depths start at 1", ds.Depth)
		}
	}
	sort.SliceStable(p.DepthSettings, func(i, j int) bool {
		return p.DepthSettings[i].Depth < p.DepthSettings[j].Depth
	})

	if err := p.ParamsForDepth(1).Validate(); err != nil {
		return err
	}
	for _, ds := range p.DepthSettings {
		if err := p.ParamsForDepth(ds.Depth).Validate(); err != nil {
			return fmt.Errorf("depth %d: %w", ds.Depth, err)
		}
	}
	return nil
}

// ParamsForDepth returns the base map settings overlaid with the deepest
// depth setting that applies at depth.
func (p *Procgen) ParamsForDepth(depth int) world.Params {
	params := world.Params{
		Width:       p.Map.Width,
		Height:      p.Map.Height,
		MaxRooms:    p.Map.MaxRooms,
		MinRoomSize: p.Map.MinRoomSize,
		MaxRoomSize: p.Map.MaxRoomSize,
	}

	var applied *DepthSetting
	for i := range p.DepthSettings {
		if p.DepthSettings[i].Depth <= depth {
			applied = &p.DepthSettings[i]
		}
	}
	if applied == nil {
		return params
	}

	if applied.MaxRooms != nil {
		params.MaxRooms = *applied.MaxRooms
	}
	if applied.MinRoomSize != nil {
		params.MinRoomSize = *applied.MinRoomSize
	}
	if applied.MaxRoomSize != nil {
		params.MaxRoomSize = *applied.MaxRoomSize
	}
	return params
}
