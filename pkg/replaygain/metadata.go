package replaygain

// KeyReplayGain is the metadata key the analyzer writes on success
const KeyReplayGain = "replay_gain"

// Metadata is the key/value record passed between pipeline stages
type Metadata map[string]any

// Clone returns a shallow copy; a nil Metadata clones to an empty one.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ReplayGain returns the stored gain in dB, if any
func (m Metadata) ReplayGain() (float64, bool) {
	v, ok := m[KeyReplayGain]
	if !ok {
		return 0, false
	}
	gain, ok := v.(float64)
	return gain, ok
}

// withReplayGain returns a copy of m carrying gain
func (m Metadata) withReplayGain(gain float64) Metadata {
	out := m.Clone()
	out[KeyReplayGain] = gain
	return out
}
