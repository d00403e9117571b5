// Package classify maps entry names to display categories by extension.
//
// Classification looks only at the final extension segment, lowercased, so
// "archive.tar.gz" is classified by "gz". Directories are always Folder
// regardless of name.
package classify

import (
	"github.com/ifor-lux/luxconsole/internal/util/paths"
)

// Category is the visual tag assigned to an entry.
type Category string

const (
	Folder  Category = "folder"
	Image   Category = "image"
	Video   Category = "video"
	Audio   Category = "audio"
	Archive Category = "archive"
	Code    Category = "code"
	PDF     Category = "pdf"
	Text    Category = "text"
	Generic Category = "file"
)

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true,
	"webp": true, "bmp": true, "ico": true, "tiff": true,
}

var videoExts = map[string]bool{
	"mp4": true, "avi": true, "mov": true, "wmv": true, "flv": true,
	"webm": true, "mkv": true, "m4v": true,
}

var audioExts = map[string]bool{
	"mp3": true, "wav": true, "flac": true, "aac": true, "ogg": true,
	"wma": true, "m4a": true,
}

var archiveExts = map[string]bool{
	"zip": true, "rar": true, "7z": true, "tar": true, "gz": true,
	"bz2": true, "xz": true,
}

var codeExts = map[string]bool{
	"js": true, "ts": true, "jsx": true, "tsx": true, "py": true,
	"java": true, "c": true, "cpp": true, "cs": true, "rb": true,
	"php": true, "go": true, "rs": true, "sh": true, "html": true,
	"css": true, "scss": true, "vue": true, "svelte": true, "dart": true,
	"kt": true, "swift": true,
}

var textExts = map[string]bool{
	"txt": true, "md": true, "json": true, "csv": true, "log": true,
	"xml": true, "ini": true, "conf": true, "yaml": true, "yml": true,
	"toml": true,
}

// For categorizes a named entry. isDir forces Folder.
func For(name string, isDir bool) Category {
	if isDir {
		return Folder
	}

	ext := paths.Ext(name)
	switch {
	case imageExts[ext]:
		return Image
	case videoExts[ext]:
		return Video
	case audioExts[ext]:
		return Audio
	case archiveExts[ext]:
		return Archive
	case codeExts[ext]:
		return Code
	case ext == "pdf":
		return PDF
	case textExts[ext]:
		return Text
	default:
		return Generic
	}
}

// IsImage reports whether the name carries an image extension.
// Used to open a preview instead of navigating on activation.
func IsImage(name string) bool {
	return imageExts[paths.Ext(name)]
}

// IsEditableText reports whether the file can be edited as text.
// Covers the text/config/markup set plus all code extensions.
func IsEditableText(name string) bool {
	ext := paths.Ext(name)
	return textExts[ext] || codeExts[ext]
}
