package pairs

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"github.com/atomicstack/caption-pair-manager/internal/captions"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/testutil"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	testutil.UseTempLog(t, logging.Configure)
	return NewScanner(captions.New(), language.Und)
}

func baseNames(list []Pair) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.BaseName
	}
	return out
}

func TestScanMatchesOnlyCompletePairs(t *testing.T) {
	dir := testutil.Dataset(t, testutil.Files{
		"a.png":  testutil.PNG,
		"a.txt":  "cat",
		"b.jpg":  testutil.PNG,
		"c.txt":  "orphan",
		"d.webp": testutil.PNG,
		"d.txt":  "  dog\n",
		"e.md":   "not a caption",
	})
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %#v", got)
	}
	if got[0].BaseName != "a" || got[0].Caption != "cat" {
		t.Fatalf("unexpected first pair %#v", got[0])
	}
	if got[1].BaseName != "d" || got[1].Caption != "dog" {
		t.Fatalf("unexpected second pair %#v", got[1])
	}
	for _, p := range got {
		if p.Dirty {
			t.Fatalf("expected clean pair after scan, got %#v", p)
		}
		if filepath.Dir(p.ImagePath) != dir || filepath.Dir(p.CaptionPath) != dir {
			t.Fatalf("expected absolute paths inside %s, got %#v", dir, p)
		}
	}
	if got[0].ImageSize != int64(len(testutil.PNG)) {
		t.Fatalf("expected image size recorded, got %d", got[0].ImageSize)
	}
}

func TestScanExtensionsAreCaseInsensitive(t *testing.T) {
	dir := testutil.Dataset(t, testutil.Files{
		"upper.JPEG": testutil.PNG,
		"upper.TXT":  "shouting",
		"mixed.WebP": testutil.PNG,
		"mixed.txt":  "mixed",
	})
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := baseNames(got)
	if len(names) != 2 || names[0] != "mixed" || names[1] != "upper" {
		t.Fatalf("unexpected pairs %v", names)
	}
}

func TestScanBaseNamesAreCaseSensitive(t *testing.T) {
	dir := testutil.Dataset(t, testutil.Files{
		"Cat.png": testutil.PNG,
		"cat.txt": "lowercase caption",
	})
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no pairs across differing base-name case, got %v", baseNames(got))
	}
}

func TestScanIgnoresSubdirectories(t *testing.T) {
	dir := testutil.Dataset(t, testutil.Files{
		"nested/x.png": testutil.PNG,
		"nested/x.txt": "deep",
		"y.png":        testutil.PNG,
		"y.txt":        "top",
	})
	if err := os.Mkdir(filepath.Join(dir, "z.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteFiles(t, dir, testutil.Files{"z.txt": "dir named like an image"})
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := baseNames(got); len(names) != 1 || names[0] != "y" {
		t.Fatalf("expected only top-level pair, got %v", names)
	}
}

func TestScanSortsWithCollation(t *testing.T) {
	files := testutil.Files{}
	for _, base := range []string{"b", "B", "a", "Z", "é", "10", "2"} {
		files[base+".png"] = testutil.PNG
		files[base+".txt"] = base
	}
	dir := testutil.Dataset(t, files)
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := baseNames(got)
	want := []string{"10", "2", "a", "b", "B", "é", "Z"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestScanMissingFolderYieldsEmptyAndError(t *testing.T) {
	got, err := newTestScanner(t).Scan(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected listing error")
	}
	if len(got) != 0 {
		t.Fatalf("expected no pairs, got %#v", got)
	}
}

type failingReads struct{ captions.FS }

func (failingReads) Read(string) string { return "" }

func TestScanUnreadableCaptionKeepsPair(t *testing.T) {
	testutil.UseTempLog(t, logging.Configure)
	dir := testutil.Dataset(t, testutil.Files{"a.png": testutil.PNG, "a.txt": "cat"})
	got, err := NewScanner(failingReads{}, language.Und).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Caption != "" {
		t.Fatalf("expected pair with empty caption, got %#v", got)
	}
}

func TestIsImageAndCaption(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPG", "a.jpeg", "a.png", "a.gif", "a.bmp", "a.webp"} {
		if !IsImage(name) {
			t.Fatalf("expected %s to be an image", name)
		}
		if IsCaption(name) {
			t.Fatalf("expected %s not to be a caption", name)
		}
	}
	if IsImage("a.tiff") || IsImage("a.txt") {
		t.Fatalf("unexpected image match")
	}
	if !IsCaption("a.txt") || !IsCaption("a.TXT") {
		t.Fatalf("expected caption match")
	}
}

func TestScanSkipsNamesWithoutBase(t *testing.T) {
	dir := testutil.Dataset(t, testutil.Files{
		".png":   testutil.PNG,
		".txt":   "hidden",
		".a.png": testutil.PNG,
		".a.txt": "dotted base",
	})
	got, err := newTestScanner(t).Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := baseNames(got); len(names) != 1 || names[0] != ".a" {
		t.Fatalf("expected only the .a pair, got %v", names)
	}
}
