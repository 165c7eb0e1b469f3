package profile

import ffmpeg "github.com/u2takey/ffmpeg-go"

// Compat is the most conservative profile: baseline H.264 with fast preset
// and plain stereo AAC. The safe re-encode strategy uses it to confirm the
// engine itself still functions when every overlay attempt has failed.
type Compat struct{}

func init() {
	Register(&Compat{})
}

func (p *Compat) GetName() string {
	return "compat"
}

func (p *Compat) GetVideoCodec() string {
	return "libx264"
}

func (p *Compat) GetAudioCodec() string {
	return "aac"
}

func (p *Compat) OutputKwargs(copyAudio bool) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":       p.GetVideoCodec(),
		"preset":    "veryfast",
		"crf":       28,
		"profile:v": "baseline",
		"level":     "3.1",
		"pix_fmt":   "yuv420p",
		"movflags":  "+faststart",
	}
	// The safe re-encode always rewrites audio; a broken audio stream is
	// one of the failure modes this profile exists to route around.
	_ = copyAudio
	kwargs["c:a"] = p.GetAudioCodec()
	kwargs["b:a"] = "128k"
	kwargs["ac"] = 2
	kwargs["ar"] = 44100
	return kwargs
}
