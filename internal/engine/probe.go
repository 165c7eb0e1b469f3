package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
	HasVideo bool
}

// Probe retrieves metadata about a video file
func Probe(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error probing video: %v", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	// If still no duration found, try calculating from frames and frame rate
	if duration == 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				var frameRate float64
				if rFrameRate, ok := videoStream["r_frame_rate"].(string); ok {
					if nums := strings.Split(rFrameRate, "/"); len(nums) == 2 {
						num, err1 := strconv.ParseFloat(nums[0], 64)
						den, err2 := strconv.ParseFloat(nums[1], 64)
						if err1 == nil && err2 == nil && den != 0 {
							frameRate = num / den
						}
					}
				}
				if frameRate > 0 {
					duration = frames / frameRate
				}
			}
		}
	}

	if duration == 0 {
		return nil, fmt.Errorf("could not determine video duration")
	}

	width, wok := videoStream["width"].(float64)
	height, hok := videoStream["height"].(float64)
	if !wok || !hok {
		return nil, fmt.Errorf("video stream missing dimensions")
	}
	codec, _ := videoStream["codec_name"].(string)

	return &VideoMetadata{
		Duration: duration,
		Width:    int(width),
		Height:   int(height),
		Codec:    codec,
		HasVideo: true,
	}, nil
}
