package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/mirror/internal/monitoring"
	"github.com/banshee-data/mirror/internal/symmetry"
	"github.com/banshee-data/mirror/internal/testutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func fixture(t *testing.T) ([]symmetry.Point, *symmetry.Report) {
	t.Helper()
	pts := testutil.MirroredCloud(7, 20, 3, 0, 0.1)
	pts = append(pts, testutil.V(5, 5, 5))
	r, err := symmetry.Match(pts, symmetry.Plane{Axis: symmetry.AxisX, Tolerance: 1e-6})
	testutil.AssertNoError(t, err)
	if len(r.Asymmetrical) != 1 {
		t.Fatalf("fixture asymmetrical = %v, want one point", r.Asymmetrical)
	}
	return pts, r
}

func TestWritePNG(t *testing.T) {
	pts, r := fixture(t)
	path := filepath.Join(t.TempDir(), "symmetry.png")
	if err := WritePNG(path, pts, r); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG (%d bytes)", len(data))
	}
}

func TestWriteHTML(t *testing.T) {
	pts, r := fixture(t)
	var buf bytes.Buffer
	if err := WriteHTML(&buf, pts, r); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Mesh Symmetry", "positive", "negative", "center", "asymmetrical", "1 asymmetrical of 44"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestWriteHTML_EmptyReport(t *testing.T) {
	r, err := symmetry.Match(nil, symmetry.Plane{Axis: symmetry.AxisY, Tolerance: 0.01})
	testutil.AssertNoError(t, err)
	var buf bytes.Buffer
	if err := WriteHTML(&buf, nil, r); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "Symmetric about y") {
		t.Error("empty report title missing")
	}
}

func TestRenderErrors(t *testing.T) {
	pts, r := fixture(t)
	var buf bytes.Buffer
	testutil.AssertError(t, WriteHTML(&buf, pts, nil))
	testutil.AssertError(t, WriteHTML(&buf, pts[:3], r))
	testutil.AssertError(t, WritePNG(filepath.Join(t.TempDir(), "x.png"), pts[:3], r))
}
