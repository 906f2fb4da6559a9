package config

import (
	"path/filepath"
	"strings"
)

// FileKind - the upload slots the app knows about
type FileKind string

const (
	FileResume FileKind = "resume"
	FileDeck   FileKind = "deck"
	FileMemo   FileKind = "memo"
	FileAvatar FileKind = "avatar"
	FileLogo   FileKind = "logo"
)

// FileRule - limits for one upload slot
type FileRule struct {
	MaxSize           int64
	AllowedExtensions []string
	Image             bool
}

// FileRules builds the per-kind upload limits from the upload section.
func (c *Config) FileRules() map[FileKind]FileRule {
	docs := c.Upload.MaxSize
	images := c.Upload.MaxImageSize
	return map[FileKind]FileRule{
		FileResume: {MaxSize: docs, AllowedExtensions: []string{".pdf"}},
		FileDeck:   {MaxSize: docs, AllowedExtensions: []string{".pdf", ".ppt", ".pptx"}},
		FileMemo:   {MaxSize: docs, AllowedExtensions: []string{".pdf", ".doc", ".docx"}},
		FileAvatar: {MaxSize: images, AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"}, Image: true},
		FileLogo:   {MaxSize: images, AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"}, Image: true},
	}
}

// Allows reports whether filename has an accepted extension
func (r FileRule) Allows(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range r.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
