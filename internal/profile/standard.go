package profile

import ffmpeg "github.com/u2takey/ffmpeg-go"

// Standard is the profile used by the overlay strategies: a normal-quality
// H.264 encode that keeps the output broadly playable.
type Standard struct{}

func init() {
	Register(&Standard{})
}

func (p *Standard) GetName() string {
	return "standard"
}

func (p *Standard) GetVideoCodec() string {
	return "libx264"
}

func (p *Standard) GetAudioCodec() string {
	return "aac"
}

func (p *Standard) OutputKwargs(copyAudio bool) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":      p.GetVideoCodec(),
		"preset":   "medium",
		"crf":      23,
		"pix_fmt":  "yuv420p",
		"movflags": "+faststart",
	}
	if copyAudio {
		kwargs["c:a"] = "copy"
	} else {
		kwargs["c:a"] = p.GetAudioCodec()
		kwargs["b:a"] = "128k"
	}
	return kwargs
}
