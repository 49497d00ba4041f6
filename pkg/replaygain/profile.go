package replaygain

import (
	"fmt"
	"sort"
)

// Stream selects which captured output the parser reads
type Stream int

const (
	StreamStdout Stream = iota
	StreamStderr
)

// Profile is the versioned invocation contract for one external tool.
// Executable is only the default; a Locator or Request.Executable overrides it.
// Args returns the full argument list with the file path included.
type Profile struct {
	Name       string
	Executable string
	Args       func(filePath string) []string
	Stream     Stream
	Parser     OutputParser
}

// Built-in profile names
const (
	ProfileRGain    = "rgain"
	ProfileMP3Gain  = "mp3gain"
	ProfileLoudgain = "loudgain"
	ProfileFFmpeg   = "ffmpeg"
	ProfileGeneric  = "generic"
)

var profiles = map[string]Profile{
	ProfileRGain: {
		Name:       ProfileRGain,
		Executable: DefaultExecutable,
		Args:       func(p string) []string { return []string{"-d", p} },
		Stream:     StreamStdout,
		Parser:     rgainParser{},
	},
	ProfileMP3Gain: {
		Name:       ProfileMP3Gain,
		Executable: "mp3gain",
		Args:       func(p string) []string { return []string{"-s", "s", p} },
		Stream:     StreamStdout,
		Parser:     NewLabelParser(`Recommended "Track" dB change:\s*(` + decibelPattern + `)`),
	},
	ProfileLoudgain: {
		Name:       ProfileLoudgain,
		Executable: "loudgain",
		Args:       func(p string) []string { return []string{p} },
		Stream:     StreamStdout,
		Parser:     loudgainParser{},
	},
	ProfileFFmpeg: {
		Name:       ProfileFFmpeg,
		Executable: "ffmpeg",
		Args: func(p string) []string {
			return []string{"-hide_banner", "-nostats", "-i", p, "-af", "replaygain", "-f", "null", "-"}
		},
		Stream: StreamStderr,
		Parser: NewLabelParser(`track_gain\s*=\s*(` + decibelPattern + `)\s*dB`),
	},
	ProfileGeneric: {
		Name:       ProfileGeneric,
		Executable: DefaultExecutable,
		Args:       func(p string) []string { return []string{p} },
		Stream:     StreamStdout,
		Parser:     NewLabelParser(`(?i)Recommended Gain:\s*(` + decibelPattern + `)\s*dB`),
	},
}

// DefaultProfile returns the python-rgain profile
func DefaultProfile() Profile {
	return profiles[ProfileRGain]
}

// LookupProfile returns a built-in profile by name
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists the built-in profiles in sorted order
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
