package media

import (
	"fmt"
	"slices"

	"github.com/docker/go-units"
)

const (
	DefaultMaxCount     = 5
	DefaultMaxSizeBytes = 2 * 1024 * 1024
)

// DefaultAllowedTypes are the image types the portfolio API accepts
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Limits bounds what a single draft may hold
type Limits struct {
	MaxCount     int
	MaxSizeBytes int64
	AllowedTypes []string
}

func DefaultLimits() Limits {
	return Limits{
		MaxCount:     DefaultMaxCount,
		MaxSizeBytes: DefaultMaxSizeBytes,
		AllowedTypes: slices.Clone(DefaultAllowedTypes),
	}
}

// Reason explains why a candidate file was rejected
type Reason int

const (
	BadType Reason = iota + 1
	TooLarge
	OverCapacity
)

func (r Reason) String() string {
	switch r {
	case BadType:
		return "bad_type"
	case TooLarge:
		return "too_large"
	case OverCapacity:
		return "over_capacity"
	default:
		return "unknown"
	}
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type Rejection struct {
	File    FileDescriptor
	Reason  Reason
	Message string
}

// Result partitions a batch into accepted files and rejections
type Result struct {
	Accepted   []FileDescriptor
	Rejections []Rejection
}

// Messages returns one user-facing line per rejection
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Rejections))
	for _, rej := range r.Rejections {
		out = append(out, rej.Message)
	}
	return out
}

// Validate screens a batch of candidate files for a draft already holding currentCount
// images. A batch that would overflow MaxCount is rejected as a whole; otherwise each
// file is checked for type and then size.
func Validate(files []FileDescriptor, currentCount int, limits Limits) Result {
	var result Result

	if currentCount+len(files) > limits.MaxCount {
		msg := fmt.Sprintf("Maximum %d images allowed", limits.MaxCount)
		for _, f := range files {
			result.Rejections = append(result.Rejections, Rejection{File: f, Reason: OverCapacity, Message: msg})
		}
		return result
	}

	for _, f := range files {
		switch {
		case !slices.Contains(limits.AllowedTypes, f.MimeType):
			result.Rejections = append(result.Rejections, Rejection{
				File:    f,
				Reason:  BadType,
				Message: fmt.Sprintf("%s is not a valid image type", f.Name),
			})
		case f.SizeBytes > limits.MaxSizeBytes:
			result.Rejections = append(result.Rejections, Rejection{
				File:    f,
				Reason:  TooLarge,
				Message: fmt.Sprintf("%s is too large (max %s)", f.Name, units.BytesSize(float64(limits.MaxSizeBytes))),
			})
		default:
			result.Accepted = append(result.Accepted, f)
		}
	}

	return result
}
