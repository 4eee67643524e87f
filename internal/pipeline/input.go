package pipeline

import (
	"errors"
	"fmt"
)

// Source identifies where an Input's document comes from
type Source string

// Input sources
const (
	SourceFile  Source = "file"
	SourceURL   Source = "url"
	SourceS3    Source = "s3"
	SourceBytes Source = "upload"
	SourceText  Source = "text"
)

// Input names exactly one document. Set Path, URL, S3Key, Data (with
// Filename) or Text.
type Input struct {
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	S3Key string `json:"s3_key,omitempty"`

	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"-"`
	Text        string `json:"-"`
}

// FileInputs builds one Input per path
func FileInputs(paths ...string) []Input {
	inputs := make([]Input, len(paths))
	for i, p := range paths {
		inputs[i] = Input{Path: p}
	}
	return inputs
}

// Source reports which field of the input is set
func (in Input) Source() Source {
	switch {
	case in.URL != "":
		return SourceURL
	case in.S3Key != "":
		return SourceS3
	case in.Data != nil:
		return SourceBytes
	case in.Path != "":
		return SourceFile
	default:
		return SourceText
	}
}

// Name is a human-readable label for logs and progress events
func (in Input) Name() string {
	switch in.Source() {
	case SourceURL:
		return in.URL
	case SourceS3:
		return "s3://" + in.S3Key
	case SourceFile:
		return in.Path
	default:
		if in.Filename != "" {
			return in.Filename
		}
		return string(in.Source())
	}
}

func (in Input) validate() error {
	set := 0
	for _, present := range []bool{in.Path != "", in.URL != "", in.S3Key != "", in.Data != nil, in.Text != ""} {
		if present {
			set++
		}
	}
	switch {
	case set == 0:
		return errors.New("input requires one of path, url, s3 key, data or text")
	case set > 1:
		return fmt.Errorf("input %s names more than one source", in.Name())
	case in.Data != nil && in.Filename == "":
		return errors.New("uploaded data requires a filename")
	}
	return nil
}
