// Package util provides content hashing and mmark front matter parsing.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
	"github.com/mmarkdown/mmark/v2/mast"
)

var ErrNoFrontMatter = errors.New("invalid front matter format")

var frontMatterDelimiter = []byte("%%%")

// FrontMatter is an mmark TOML title block. Consumed is the number of bytes
// of the normalised, left-trimmed input the block occupies.
type FrontMatter struct {
	*mast.TitleData
	Consumed int
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// SplitFrontMatter parses a leading %%% delimited TOML block and returns it
// together with the remaining document.
func SplitFrontMatter(md []byte) (*FrontMatter, []byte, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	if !bytes.HasPrefix(md, frontMatterDelimiter) {
		return nil, md, ErrNoFrontMatter
	}

	rest := md[len(frontMatterDelimiter):]
	closing := bytes.Index(rest, frontMatterDelimiter)
	if closing == -1 {
		return nil, md, ErrNoFrontMatter
	}

	raw := rest[:closing]
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, md, ErrNoFrontMatter
	}

	info := &FrontMatter{TitleData: &mast.TitleData{}}
	if _, err := toml.Decode(string(raw), info.TitleData); err != nil {
		return nil, md, fmt.Errorf("failed to decode front matter: %w", err)
	}

	if info.Language == "" {
		info.Language = "en"
	}
	info.Consumed = len(frontMatterDelimiter) + closing + len(frontMatterDelimiter)

	body := bytes.TrimPrefix(md[info.Consumed:], []byte("\n"))
	return info, body, nil
}
