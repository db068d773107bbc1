package pairs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/atomicstack/caption-pair-manager/internal/captions"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
)

// Scanner groups the files of a folder into pairs.
type Scanner struct {
	store captions.Store
	lang  language.Tag
}

// NewScanner returns a Scanner reading captions through store and ordering
// base names with the collation rules of lang.
func NewScanner(store captions.Store, lang language.Tag) *Scanner {
	if store == nil {
		store = captions.New()
	}
	return &Scanner{store: store, lang: lang}
}

type slots struct {
	image     string
	imageSize int64
	caption   string
}

// Scan lists dir (non-recursively) and returns the complete pairs sorted by
// base name. A listing failure returns no pairs and the error; unreadable
// captions and entries are skipped without failing the scan.
func (s *Scanner) Scan(dir string) ([]Pair, error) {
	events.Scan.Start(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		err = fmt.Errorf("scan %s: %w", dir, err)
		logging.Error(err)
		return nil, err
	}

	groups := make(map[string]*slots, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		base, ext := SplitName(name)
		if base == "" {
			events.Scan.Skip(name, "no base name")
			continue
		}
		isImage := IsImage(name)
		if !isImage && ext != CaptionExt {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			logging.Error(fmt.Errorf("stat %s: %w", path, err))
			events.Scan.Skip(name, "stat")
			continue
		}
		if !info.Mode().IsRegular() {
			events.Scan.Skip(name, "not a regular file")
			continue
		}
		group, ok := groups[base]
		if !ok {
			group = &slots{}
			groups[base] = group
		}
		if isImage {
			group.image = path
			group.imageSize = info.Size()
		} else {
			group.caption = path
		}
	}

	found := make([]Pair, 0, len(groups))
	for base, group := range groups {
		if group.image == "" || group.caption == "" {
			continue
		}
		found = append(found, Pair{
			ImagePath:   group.image,
			CaptionPath: group.caption,
			BaseName:    base,
			Caption:     s.store.Read(group.caption),
			ImageSize:   group.imageSize,
		})
	}
	Sort(found, s.lang)
	events.Scan.Done(dir, len(entries), len(found))
	return found, nil
}

// Sort orders pairs by base name using locale collation, falling back to
// byte order when the collator considers two names equal.
func Sort(list []Pair, lang language.Tag) {
	c := collate.New(lang)
	sort.SliceStable(list, func(i, j int) bool {
		if cmp := c.CompareString(list[i].BaseName, list[j].BaseName); cmp != 0 {
			return cmp < 0
		}
		return list[i].BaseName < list[j].BaseName
	})
}
