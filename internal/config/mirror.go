package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/meshmath"
	"github.com/banshee-data/mirror/internal/mirror"
	"github.com/banshee-data/mirror/internal/symmetry"
)

// DefaultConfigPath is the path to the canonical mirror defaults file.
const DefaultConfigPath = "config/mirror.defaults.json"

// MirrorConfig holds the tunables shared by the symmetry, meshmath and
// mirror commands. Every field is optional; the Get* methods supply
// defaults for anything left unset.
type MirrorConfig struct {
	// Symmetry matching
	Tolerance     *float64 `json:"tolerance,omitempty"`
	Axis          *string  `json:"axis,omitempty"`
	CenterMode    *string  `json:"center_mode,omitempty"`
	MatchStrategy *string  `json:"match_strategy,omitempty"`

	// Mirror transfer
	DefaultAxisChannels []string `json:"default_axis_channels,omitempty"`
	TransferMode        *string  `json:"transfer_mode,omitempty"` // "anim" or "attribute"
	TransferChannels    []string `json:"transfer_channels,omitempty"`
	TimeRangeStart      *float64 `json:"time_range_start,omitempty"`
	TimeRangeEnd        *float64 `json:"time_range_end,omitempty"`
	ClearUnkeyed        *bool    `json:"clear_unkeyed,omitempty"` // anim swaps clear keys an unkeyed partner lacks

	// Mesh math
	Multiplier *float64 `json:"multiplier,omitempty"` // 0 means the mode default
	ResultMode *string  `json:"result_mode,omitempty"`
	Space      *string  `json:"space,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyMirrorConfig returns a MirrorConfig with every field unset.
func EmptyMirrorConfig() *MirrorConfig {
	return &MirrorConfig{}
}

// DefaultMirrorConfig returns a config with every field set to its
// default, matching config/mirror.defaults.json.
func DefaultMirrorConfig() *MirrorConfig {
	return &MirrorConfig{
		Tolerance:           ptrFloat64(symmetry.DefaultTolerance),
		Axis:                ptrString("x"),
		CenterMode:          ptrString("pivot"),
		MatchStrategy:       ptrString("first"),
		DefaultAxisChannels: slices.Clone(mirror.DefaultAxisChannels),
		TransferMode:        ptrString("anim"),
		TransferChannels:    slices.Clone(host.TransformChannels),
		ClearUnkeyed:        ptrBool(false),
		Multiplier:          ptrFloat64(0),
		ResultMode:          ptrString("new"),
		Space:               ptrString("object"),
	}
}

// LoadMirrorConfig loads a MirrorConfig from a JSON file. The path must
// end in .json and the file must be under 1MB. Omitted fields stay unset
// and fall back to defaults through the Get* methods.
func LoadMirrorConfig(path string) (*MirrorConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMirrorConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. It panics if the file cannot be loaded and
// is intended for test setup.
func MustLoadDefaultConfig() *MirrorConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/host/scenedb/
	}
	for _, path := range candidates {
		if cfg, err := LoadMirrorConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks every set field. Enum strings are parsed with the same
// parsers the engine uses, so errors wrap host.ErrInvalidEnum.
func (c *MirrorConfig) Validate() error {
	if c.Tolerance != nil {
		if *c.Tolerance < 0 || math.IsNaN(*c.Tolerance) {
			return fmt.Errorf("tolerance must be non-negative, got %v", *c.Tolerance)
		}
	}
	if c.Axis != nil {
		if _, err := symmetry.ParseAxis(*c.Axis); err != nil {
			return err
		}
	}
	if c.CenterMode != nil {
		if _, err := symmetry.ParseCenterMode(*c.CenterMode); err != nil {
			return err
		}
	}
	if c.MatchStrategy != nil {
		if _, err := symmetry.ParseStrategy(*c.MatchStrategy); err != nil {
			return err
		}
	}
	if c.TransferMode != nil {
		if _, err := mirror.ParseMode(*c.TransferMode); err != nil {
			return err
		}
	}
	if c.ResultMode != nil {
		if _, err := meshmath.ParseResultMode(*c.ResultMode); err != nil {
			return err
		}
	}
	if c.Space != nil {
		if _, err := host.ParseSpace(*c.Space); err != nil {
			return err
		}
	}
	if c.Multiplier != nil && math.IsNaN(*c.Multiplier) {
		return fmt.Errorf("multiplier must be a number")
	}
	if c.TimeRangeStart != nil && c.TimeRangeEnd != nil && *c.TimeRangeStart > *c.TimeRangeEnd {
		return fmt.Errorf("time_range_start %v is after time_range_end %v", *c.TimeRangeStart, *c.TimeRangeEnd)
	}
	return nil
}

// GetTolerance returns the tolerance or symmetry.DefaultTolerance.
func (c *MirrorConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return symmetry.DefaultTolerance
	}
	return *c.Tolerance
}

// GetAxis returns the mirror axis, default X.
func (c *MirrorConfig) GetAxis() symmetry.Axis {
	if c.Axis == nil {
		return symmetry.AxisX
	}
	a, err := symmetry.ParseAxis(*c.Axis)
	if err != nil {
		return symmetry.AxisX
	}
	return a
}

// GetCenterMode returns the plane origin mode, default pivot.
func (c *MirrorConfig) GetCenterMode() symmetry.CenterMode {
	if c.CenterMode == nil {
		return symmetry.CenterPivot
	}
	m, err := symmetry.ParseCenterMode(*c.CenterMode)
	if err != nil {
		return symmetry.CenterPivot
	}
	return m
}

// GetMatchOptions returns the pairing strategy, default first match.
func (c *MirrorConfig) GetMatchOptions() symmetry.MatchOptions {
	if c.MatchStrategy == nil {
		return symmetry.MatchOptions{}
	}
	s, err := symmetry.ParseStrategy(*c.MatchStrategy)
	if err != nil {
		return symmetry.MatchOptions{}
	}
	return symmetry.MatchOptions{Strategy: s}
}

// GetDefaultAxisChannels returns the channels negated on nodes without a
// mirrorAxis attribute.
func (c *MirrorConfig) GetDefaultAxisChannels() []string {
	if c.DefaultAxisChannels == nil {
		return slices.Clone(mirror.DefaultAxisChannels)
	}
	return slices.Clone(c.DefaultAxisChannels)
}

// GetTransferMode returns anim or attribute, default anim.
func (c *MirrorConfig) GetTransferMode() mirror.Mode {
	if c.TransferMode == nil {
		return mirror.ModeAnim
	}
	m, err := mirror.ParseMode(*c.TransferMode)
	if err != nil {
		return mirror.ModeAnim
	}
	return m
}

// GetTransferChannels returns the channels moved between paired nodes.
func (c *MirrorConfig) GetTransferChannels() []string {
	if c.TransferChannels == nil {
		return slices.Clone(host.TransformChannels)
	}
	return slices.Clone(c.TransferChannels)
}

// GetTimeRange returns the key range for anim transfers, or nil for the
// whole curve. A single bound leaves the other side open.
func (c *MirrorConfig) GetTimeRange() *host.TimeRange {
	if c.TimeRangeStart == nil && c.TimeRangeEnd == nil {
		return nil
	}
	tr := &host.TimeRange{Start: -math.MaxFloat64, End: math.MaxFloat64}
	if c.TimeRangeStart != nil {
		tr.Start = *c.TimeRangeStart
	}
	if c.TimeRangeEnd != nil {
		tr.End = *c.TimeRangeEnd
	}
	return tr
}

// GetClearUnkeyed reports whether anim swaps clear the keys of a partner
// whose counterpart has none.
func (c *MirrorConfig) GetClearUnkeyed() bool {
	return c.ClearUnkeyed != nil && *c.ClearUnkeyed
}

// GetMultiplier returns the mesh math multiplier; 0 selects the mode
// default.
func (c *MirrorConfig) GetMultiplier() float64 {
	if c.Multiplier == nil {
		return 0
	}
	return *c.Multiplier
}

// GetResultMode returns where mesh math writes, default a new mesh.
func (c *MirrorConfig) GetResultMode() meshmath.ResultMode {
	if c.ResultMode == nil {
		return meshmath.ResultNew
	}
	m, err := meshmath.ParseResultMode(*c.ResultMode)
	if err != nil {
		return meshmath.ResultNew
	}
	return m
}

// GetSpace returns the coordinate space for mesh math, default object.
func (c *MirrorConfig) GetSpace() host.Space {
	if c.Space == nil {
		return host.ObjectSpace
	}
	s, err := host.ParseSpace(*c.Space)
	if err != nil {
		return host.ObjectSpace
	}
	return s
}
