package profile

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Profile defines the interface for encoding profiles used by the
// rendering strategies.
type Profile interface {
	// GetName returns the profile name
	GetName() string

	// GetVideoCodec returns the video codec
	GetVideoCodec() string

	// GetAudioCodec returns the audio codec
	GetAudioCodec() string

	// OutputKwargs returns the full ffmpeg output argument set for this
	// profile. copyAudio requests stream-copying the audio track instead
	// of re-encoding it.
	OutputKwargs(copyAudio bool) ffmpeg.KwArgs
}

var profiles = make(map[string]Profile)

// Register adds a profile to the registry
func Register(p Profile) {
	profiles[p.GetName()] = p
}

// Get returns a profile by name
func Get(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoding profile: %s", name)
	}
	return p, nil
}

// Supported returns the registered profile names
func Supported() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}
