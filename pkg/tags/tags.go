// Package tags seeds analysis metadata from the tags embedded in an audio file.
package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"

	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// Metadata keys written by Read
const (
	KeyTitle       = "title"
	KeyArtist      = "artist"
	KeyAlbum       = "album"
	KeyGenre       = "genre"
	KeyYear        = "year"
	KeyTrackNumber = "track_number"
	KeyFormat      = "format"
	KeyFileType    = "file_type"
)

// ErrNoTags is returned when the file carries no recognised tag block
var ErrNoTags = errors.New("no tags found")

// Read returns the file's tags as a metadata mapping. Empty fields are omitted.
func Read(path string) (replaygain.Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, fmt.Errorf("%w in %s", ErrNoTags, path)
		}
		return nil, fmt.Errorf("could not read tags from %s: %w", path, err)
	}

	md := replaygain.Metadata{}
	setString(md, KeyTitle, meta.Title())
	setString(md, KeyArtist, meta.Artist())
	setString(md, KeyAlbum, meta.Album())
	setString(md, KeyGenre, meta.Genre())
	setString(md, KeyFormat, string(meta.Format()))
	setString(md, KeyFileType, string(meta.FileType()))

	if year := meta.Year(); year > 0 {
		md[KeyYear] = year
	}
	if track, _ := meta.Track(); track > 0 {
		md[KeyTrackNumber] = track
	}
	return md, nil
}

func setString(md replaygain.Metadata, key, value string) {
	if value != "" {
		md[key] = value
	}
}
