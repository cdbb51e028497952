package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/meshmath"
	"github.com/banshee-data/mirror/internal/mirror"
	"github.com/banshee-data/mirror/internal/symmetry"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsFileMatchesDefaultMirrorConfig(t *testing.T) {
	fromFile := MustLoadDefaultConfig()
	if diff := cmp.Diff(DefaultMirrorConfig(), fromFile); diff != "" {
		t.Errorf("%s drifted from DefaultMirrorConfig (-code +file):\n%s", DefaultConfigPath, diff)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := EmptyMirrorConfig()

	if got := cfg.GetTolerance(); got != symmetry.DefaultTolerance {
		t.Errorf("GetTolerance() = %v, want %v", got, symmetry.DefaultTolerance)
	}
	if got := cfg.GetAxis(); got != symmetry.AxisX {
		t.Errorf("GetAxis() = %v, want X", got)
	}
	if got := cfg.GetCenterMode(); got != symmetry.CenterPivot {
		t.Errorf("GetCenterMode() = %v, want pivot", got)
	}
	if got := cfg.GetMatchOptions().Strategy; got != symmetry.FirstMatch {
		t.Errorf("GetMatchOptions().Strategy = %v, want first match", got)
	}
	if diff := cmp.Diff(mirror.DefaultAxisChannels, cfg.GetDefaultAxisChannels()); diff != "" {
		t.Errorf("GetDefaultAxisChannels() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetTransferMode(); got != mirror.ModeAnim {
		t.Errorf("GetTransferMode() = %v, want anim", got)
	}
	if diff := cmp.Diff(host.TransformChannels, cfg.GetTransferChannels()); diff != "" {
		t.Errorf("GetTransferChannels() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetTimeRange(); got != nil {
		t.Errorf("GetTimeRange() = %v, want nil", got)
	}
	if cfg.GetClearUnkeyed() {
		t.Error("GetClearUnkeyed() = true, want false")
	}
	if got := cfg.GetMultiplier(); got != 0 {
		t.Errorf("GetMultiplier() = %v, want 0", got)
	}
	if got := cfg.GetResultMode(); got != meshmath.ResultNew {
		t.Errorf("GetResultMode() = %v, want new", got)
	}
	if got := cfg.GetSpace(); got != host.ObjectSpace {
		t.Errorf("GetSpace() = %v, want object", got)
	}
}

func TestLoadMirrorConfig_Partial(t *testing.T) {
	path := writeConfig(t, "partial.json", `{
  "tolerance": 0.01,
  "axis": "z",
  "center_mode": "bbox",
  "match_strategy": "optimal",
  "default_axis_channels": [],
  "transfer_mode": "attribute",
  "time_range_start": 10,
  "clear_unkeyed": true
}`)
	cfg, err := LoadMirrorConfig(path)
	if err != nil {
		t.Fatalf("LoadMirrorConfig: %v", err)
	}
	if cfg.GetTolerance() != 0.01 {
		t.Errorf("GetTolerance() = %v", cfg.GetTolerance())
	}
	if cfg.GetAxis() != symmetry.AxisZ {
		t.Errorf("GetAxis() = %v", cfg.GetAxis())
	}
	if cfg.GetCenterMode() != symmetry.CenterBoundingBox {
		t.Errorf("GetCenterMode() = %v", cfg.GetCenterMode())
	}
	if cfg.GetMatchOptions().Strategy != symmetry.Optimal {
		t.Errorf("GetMatchOptions() = %v", cfg.GetMatchOptions())
	}
	if ch := cfg.GetDefaultAxisChannels(); ch == nil || len(ch) != 0 {
		t.Errorf("explicit empty channel list = %#v, want empty non-nil", ch)
	}
	if cfg.GetTransferMode() != mirror.ModeAttribute {
		t.Errorf("GetTransferMode() = %v", cfg.GetTransferMode())
	}
	if !cfg.GetClearUnkeyed() {
		t.Error("GetClearUnkeyed() = false, want true")
	}
	tr := cfg.GetTimeRange()
	if tr == nil || tr.Start != 10 || !tr.Contains(1e12) || tr.Contains(9) {
		t.Errorf("GetTimeRange() = %+v", tr)
	}
	// Unset fields fall back.
	if cfg.GetSpace() != host.ObjectSpace || cfg.GetResultMode() != meshmath.ResultNew {
		t.Errorf("unset fields did not fall back to defaults")
	}
}

func TestLoadMirrorConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		body     string
		wantErr  string
		wantEnum bool
	}{
		{"wrong extension", "cfg.yaml", `{}`, ".json extension", false},
		{"bad json", "cfg.json", `{"tolerance":`, "parse config JSON", false},
		{"negative tolerance", "cfg.json", `{"tolerance": -1}`, "tolerance", false},
		{"bad axis", "cfg.json", `{"axis": "w"}`, "axis", true},
		{"bad center mode", "cfg.json", `{"center_mode": "middle"}`, "center mode", true},
		{"bad strategy", "cfg.json", `{"match_strategy": "greedy"}`, "strategy", true},
		{"bad transfer mode", "cfg.json", `{"transfer_mode": "keys"}`, "mirror mode", true},
		{"bad result mode", "cfg.json", `{"result_mode": "replace"}`, "result mode", true},
		{"bad space", "cfg.json", `{"space": "tangent"}`, "space", true},
		{"inverted range", "cfg.json", `{"time_range_start": 5, "time_range_end": 1}`, "time_range_start", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadMirrorConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if tt.wantEnum != errors.Is(err, host.ErrInvalidEnum) {
				t.Errorf("errors.Is(ErrInvalidEnum) = %v, want %v", !tt.wantEnum, tt.wantEnum)
			}
		})
	}
}

func TestLoadMirrorConfig_MissingAndOversized(t *testing.T) {
	if _, err := LoadMirrorConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	big := `{"axis": "x"` + strings.Repeat(" ", 1024*1024) + `}`
	path := writeConfig(t, "big.json", big)
	_, err := LoadMirrorConfig(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("oversized config error = %v", err)
	}
}

func TestGettersFallBackOnBadValues(t *testing.T) {
	// Values that bypassed Validate still yield defaults.
	cfg := &MirrorConfig{
		Axis:          ptrString("q"),
		CenterMode:    ptrString("q"),
		MatchStrategy: ptrString("q"),
		TransferMode:  ptrString("q"),
		ResultMode:    ptrString("q"),
		Space:         ptrString("q"),
	}
	if cfg.GetAxis() != symmetry.AxisX || cfg.GetCenterMode() != symmetry.CenterPivot ||
		cfg.GetMatchOptions().Strategy != symmetry.FirstMatch || cfg.GetTransferMode() != mirror.ModeAnim ||
		cfg.GetResultMode() != meshmath.ResultNew || cfg.GetSpace() != host.ObjectSpace {
		t.Error("getter did not fall back to its default")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted bad enums")
	}
}
