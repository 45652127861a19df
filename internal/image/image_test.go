package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// solidRGBA returns a w×h image filled with c.
func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// ---------------------------------------------------------------
// Encoder tests
// ---------------------------------------------------------------

func TestCheckEncoder(t *testing.T) {
	if err := CheckEncoder(); err != nil {
		t.Fatalf("CheckEncoder: %v", err)
	}
}

func TestEncodeProducesJPEG(t *testing.T) {
	var buf bytes.Buffer
	img := solidRGBA(64, 32, color.RGBA{R: 15, G: 15, B: 35, A: 255})
	if err := Encode(&buf, img, DefaultQuality); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("decoded size = %dx%d; want 64x32", cfg.Width, cfg.Height)
	}
}

func TestEncodeQualityAffectsSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8(x ^ y), A: 255})
		}
	}
	var low, high bytes.Buffer
	if err := Encode(&low, img, 10); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&high, img, 95); err != nil {
		t.Fatal(err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 10 size %d >= quality 95 size %d", low.Len(), high.Len())
	}
}

func TestWriteJPEG(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "nested", "card.jpg")
	img := solidRGBA(40, 20, color.RGBA{R: 6, G: 182, B: 212, A: 255})

	if err := WriteJPEG(outPath, img, DefaultQuality); err != nil {
		t.Fatalf("WriteJPEG: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q; want jpeg", format)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("size = %dx%d; want 40x20", cfg.Width, cfg.Height)
	}
}

func TestWriteJPEGRejectsOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	img := solidRGBA(4, 4, color.RGBA{A: 255})
	for _, name := range []string{"card.png", "card.webp", "card"} {
		if err := WriteJPEG(filepath.Join(dir, name), img, DefaultQuality); err == nil {
			t.Errorf("WriteJPEG(%q) succeeded; want error", name)
		}
	}
}

func TestWriteJPEGUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	img := solidRGBA(4, 4, color.RGBA{A: 255})
	if err := WriteJPEG(filepath.Join(blocker, "card.jpg"), img, DefaultQuality); err == nil {
		t.Error("WriteJPEG under a regular file succeeded; want error")
	}
}

// ---------------------------------------------------------------
// Manifest tests
// ---------------------------------------------------------------

func TestOpenManifest_Missing(t *testing.T) {
	m, err := OpenManifest(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	if m.data.Version != manifestVersion {
		t.Errorf("version = %q; want %q", m.data.Version, manifestVersion)
	}
	if len(m.data.Entries) != 0 {
		t.Errorf("entries = %d; want 0", len(m.data.Entries))
	}
}

func TestOpenManifest_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := OpenManifest(dir)
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	if len(m.data.Entries) != 0 {
		t.Errorf("entries = %d; want 0 (fresh start)", len(m.data.Entries))
	}
}

func TestOpenManifest_VersionMismatch(t *testing.T) {
	dir := t.TempDir()
	raw := `{"version":"0","entries":{"a.jpg":{"key":"k"}}}`
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := OpenManifest(dir)
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	if _, ok := m.data.Entries["a.jpg"]; ok {
		t.Error("entry from outdated manifest was kept")
	}
}

func TestManifest_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	state := filepath.Join(dir, ".state")
	out := filepath.Join(dir, "og-image.jpg")
	if err := os.WriteFile(out, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := OpenManifest(state)
	if err != nil {
		t.Fatal(err)
	}
	sum, err := FileSum(out)
	if err != nil {
		t.Fatal(err)
	}
	m.Record(out, ManifestEntry{Key: "abc", Sum: sum, Width: 1200, Height: 630, Quality: 90})
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := OpenManifest(state)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := reloaded.data.Entries[out]
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if entry.Sum != sum || entry.Width != 1200 || entry.Height != 630 || entry.Quality != 90 {
		t.Errorf("entry = %+v", entry)
	}
	if !reloaded.Fresh(out, "abc") {
		t.Error("Fresh with matching key = false; want true")
	}
	if reloaded.Fresh(out, "other") {
		t.Error("Fresh with different key = true; want false")
	}
}

func TestManifest_FreshRequiresFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gone.jpg")
	m, err := OpenManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	m.Record(out, ManifestEntry{Key: "abc"})
	if m.Fresh(out, "abc") {
		t.Error("Fresh for a missing file = true; want false")
	}
}

func TestManifest_FreshDetectsChangedFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "og-image.jpg")
	var buf bytes.Buffer
	if err := Encode(&buf, solidRGBA(32, 32, color.RGBA{R: 139, G: 92, B: 246, A: 255}), DefaultQuality); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	sum, err := FileSum(out)
	if err != nil {
		t.Fatal(err)
	}

	m, err := OpenManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	m.Record(out, ManifestEntry{Key: "abc", Sum: sum})
	if !m.Fresh(out, "abc") {
		t.Fatal("Fresh for an untouched file = false; want true")
	}

	if err := os.Truncate(out, 64); err != nil {
		t.Fatal(err)
	}
	if m.Fresh(out, "abc") {
		t.Error("Fresh for a truncated file = true; want false")
	}

	m.Record(out, ManifestEntry{Key: "abc"})
	if m.Fresh(out, "abc") {
		t.Error("Fresh for an entry without a digest = true; want false")
	}
}

func TestManifest_Forget(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "og-image.jpg")
	if err := os.WriteFile(out, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	sum, err := FileSum(out)
	if err != nil {
		t.Fatal(err)
	}
	m, err := OpenManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	m.Record(out, ManifestEntry{Key: "abc", Sum: sum})
	m.Forget(out)
	if m.Fresh(out, "abc") {
		t.Error("Fresh after Forget = true; want false")
	}
	if _, ok := m.data.Entries[out]; ok {
		t.Error("entry still present after Forget")
	}
}

func TestFileSumMissing(t *testing.T) {
	if _, err := FileSum(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("FileSum of a missing file succeeded; want error")
	}
}

func TestRenderKey(t *testing.T) {
	a, err := RenderKey("card", 90, "bitmap")
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderKey("card", 90, "bitmap")
	if err != nil {
		t.Fatal(err)
	}
	c, err := RenderKey("card", 80, "bitmap")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same inputs produced different keys")
	}
	if a == c {
		t.Error("different quality produced the same key")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d; want 64", len(a))
	}
	if _, err := RenderKey(func() {}); err == nil {
		t.Error("RenderKey of a func succeeded; want error")
	}
}
