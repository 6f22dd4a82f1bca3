package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tapedeck/internal/api"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = resultItem{}
)

// trackItem wraps [api.MixtapeTrackResponse] to implement [list.Item].
type trackItem struct {
	track api.MixtapeTrackResponse
}

func (i trackItem) FilterValue() string { return i.track.Track.Name }
func (i trackItem) Title() string {
	name := i.track.Track.Name
	if name == "" {
		name = i.track.Track.URI
	}
	return fmt.Sprintf("%d. %s", i.track.TrackPosition, name)
}
func (i trackItem) Description() string {
	desc := ""
	if len(i.track.Track.Artists) > 0 {
		desc = i.track.Track.Artists[0].Name
	}
	if i.track.TrackText != nil {
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, *i.track.TrackText)
		} else {
			desc = *i.track.TrackText
		}
	}
	return desc
}

// resultItem wraps [api.TrackDetails] from catalog search to implement [list.Item].
type resultItem struct {
	details api.TrackDetails
}

func (i resultItem) FilterValue() string { return i.details.Name }
func (i resultItem) Title() string       { return i.details.Name }
func (i resultItem) Description() string {
	desc := ""
	if len(i.details.Artists) > 0 {
		desc = i.details.Artists[0].Name
	}
	if i.details.Album.Name != "" {
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, i.details.Album.Name)
		} else {
			desc = i.details.Album.Name
		}
	}
	return desc
}
