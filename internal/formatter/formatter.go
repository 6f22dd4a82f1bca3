// package formatter provides functions to export mixtape data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// ExportToCSV converts a mixtape to CSV format with columns: Position, Title, Artist, Album, URI, Annotation
func ExportToCSV(mixtape *api.MixtapeResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artist", "Album", "URI", "Annotation"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range mixtape.Tracks {
		record := []string{
			strconv.Itoa(track.TrackPosition),
			track.Track.Name,
			firstArtist(track.Track),
			track.Track.Album.Name,
			track.Track.URI,
			annotation(track),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a mixtape to Markdown, cassette sleeve style:
// title, subtitle lines, intro text, then the annotated track list.
func ExportToMarkdown(mixtape *api.MixtapeResponse) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", mixtape.Name))

	subtitles := subtitleLines(mixtape)
	if len(subtitles) > 0 {
		buf.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(subtitles, " / ")))
	}

	if mixtape.IntroText != "" {
		buf.WriteString(mixtape.IntroText + "\n\n")
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(mixtape.Tracks)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n", visibility(mixtape.IsPublic)))
	if mixtape.SpotifyPlaylistURL != nil {
		buf.WriteString(fmt.Sprintf("**Spotify**: %s\n", *mixtape.SpotifyPlaylistURL))
	}
	buf.WriteString("\n## Tracks\n\n")

	for _, track := range mixtape.Tracks {
		line := fmt.Sprintf("%d. %s - %s", track.TrackPosition, firstArtist(track.Track), track.Track.Name)
		if track.Track.Album.Name != "" {
			line += fmt.Sprintf(" (%s)", track.Track.Album.Name)
		}
		buf.WriteString(line + "\n")
		if note := annotation(track); note != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", note))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a mixtape to plain text format
func ExportToText(mixtape *api.MixtapeResponse) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Mixtape: %s\n", mixtape.Name))
	for _, line := range subtitleLines(mixtape) {
		buf.WriteString(line + "\n")
	}
	if mixtape.IntroText != "" {
		buf.WriteString(fmt.Sprintf("Intro: %s\n", mixtape.IntroText))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(mixtape.Tracks)))

	for _, track := range mixtape.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", track.TrackPosition, firstArtist(track.Track), track.Track.Name))
		if note := annotation(track); note != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", note))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON generates a pretty-printed JSON snapshot of the mixtape
func ExportToJSON(mixtape *api.MixtapeResponse) ([]byte, error) {
	return shared.MarshalJSON(mixtape, true)
}

// ExportResult contains the path of the file created by WriteExport
type ExportResult struct {
	File   string
	Format string
}

// WriteExport renders the mixtape in the given format ("csv", "markdown",
// "text", or "json") and writes it next to the given base filepath.
//
// Defaults to the mixtape's public ID as the base filename.
func WriteExport(mixtape *api.MixtapeResponse, format, baseFilepath string) (*ExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = mixtape.PublicID
	}

	var data []byte
	var ext string
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(mixtape)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(mixtape)
		ext = ".md"
	case "text", "txt":
		data, err = ExportToText(mixtape)
		ext = ".txt"
	case "json":
		data, err = ExportToJSON(mixtape)
		ext = ".json"
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", format, err)
	}

	file := baseFilepath + ext
	if err := os.WriteFile(file, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &ExportResult{File: file, Format: format}, nil
}

func firstArtist(details api.TrackDetails) string {
	if len(details.Artists) > 0 {
		return details.Artists[0].Name
	}
	return ""
}

func annotation(track api.MixtapeTrackResponse) string {
	if track.TrackText != nil {
		return *track.TrackText
	}
	return ""
}

func subtitleLines(mixtape *api.MixtapeResponse) []string {
	var lines []string
	for _, s := range []string{mixtape.Subtitle1, mixtape.Subtitle2, mixtape.Subtitle3} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}
