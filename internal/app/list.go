package app

import (
	"strings"

	"github.com/atomicstack/caption-pair-manager/internal/captions"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
	"github.com/atomicstack/caption-pair-manager/internal/session"
)

// List scans cfg.Root once, without a session or surface.
func List(cfg Config) ([]pairs.Pair, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, session.ErrNoFolder
	}
	lang, err := collation(cfg.Collation)
	if err != nil {
		return nil, err
	}
	return pairs.NewScanner(captions.New(), lang).Scan(cfg.Root)
}
