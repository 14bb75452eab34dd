package media

import (
	"testing"
)

func file(name, mimeType string, size int64) FileDescriptor {
	return FileDescriptor{Name: name, MimeType: mimeType, SizeBytes: size}
}

func TestValidate(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name         string
		files        []FileDescriptor
		currentCount int
		accepted     int
		reasons      []Reason
		messages     []string
	}{
		{
			name:     "all valid",
			files:    []FileDescriptor{file("a.png", "image/png", 1024), file("b.webp", "image/webp", DefaultMaxSizeBytes)},
			accepted: 2,
		},
		{
			name:     "bad type",
			files:    []FileDescriptor{file("a.gif", "image/gif", 10), file("b.jpg", "image/jpeg", 10)},
			accepted: 1,
			reasons:  []Reason{BadType},
			messages: []string{"a.gif is not a valid image type"},
		},
		{
			name:     "too large",
			files:    []FileDescriptor{file("big.jpg", "image/jpeg", DefaultMaxSizeBytes+1)},
			reasons:  []Reason{TooLarge},
			messages: []string{"big.jpg is too large (max 2MiB)"},
		},
		{
			name:     "type reported before size",
			files:    []FileDescriptor{file("huge.bmp", "image/bmp", 10*DefaultMaxSizeBytes)},
			reasons:  []Reason{BadType},
			messages: []string{"huge.bmp is not a valid image type"},
		},
		{
			name:         "whole batch over capacity",
			files:        []FileDescriptor{file("a.png", "image/png", 1), file("b.png", "image/png", 1)},
			currentCount: 4,
			reasons:      []Reason{OverCapacity, OverCapacity},
			messages:     []string{"Maximum 5 images allowed", "Maximum 5 images allowed"},
		},
		{
			name:         "exactly at capacity",
			files:        []FileDescriptor{file("a.png", "image/png", 1), file("b.png", "image/png", 1)},
			currentCount: 3,
			accepted:     2,
		},
		{
			name:         "over capacity wins over per-file checks",
			files:        []FileDescriptor{file("a.gif", "image/gif", 1)},
			currentCount: 5,
			reasons:      []Reason{OverCapacity},
			messages:     []string{"Maximum 5 images allowed"},
		},
		{
			name:  "empty batch",
			files: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.files, tt.currentCount, limits)

			if len(result.Accepted) != tt.accepted {
				t.Errorf("Expected %d accepted, got %d", tt.accepted, len(result.Accepted))
			}
			if len(result.Rejections) != len(tt.reasons) {
				t.Fatalf("Expected %d rejections, got %d", len(tt.reasons), len(result.Rejections))
			}
			for i, rej := range result.Rejections {
				if rej.Reason != tt.reasons[i] {
					t.Errorf("Rejection %d: expected %s, got %s", i, tt.reasons[i], rej.Reason)
				}
			}
			msgs := result.Messages()
			for i, msg := range tt.messages {
				if msgs[i] != msg {
					t.Errorf("Message %d: expected %q, got %q", i, msg, msgs[i])
				}
			}
		})
	}
}

func TestValidateAcceptedFilesSatisfyLimits(t *testing.T) {
	limits := DefaultLimits()
	types := []string{"image/jpeg", "image/png", "image/webp", "image/gif", "text/plain"}
	sizes := []int64{0, 1, DefaultMaxSizeBytes - 1, DefaultMaxSizeBytes, DefaultMaxSizeBytes + 1}

	var batch []FileDescriptor
	for _, typ := range types {
		for _, size := range sizes {
			batch = append(batch, file("f", typ, size))
		}
	}

	// chunk the batch so capacity never triggers
	for start := 0; start < len(batch); start += limits.MaxCount {
		end := min(start+limits.MaxCount, len(batch))
		result := Validate(batch[start:end], 0, limits)
		for _, f := range result.Accepted {
			if f.SizeBytes > DefaultMaxSizeBytes {
				t.Errorf("Accepted oversized file: %d bytes", f.SizeBytes)
			}
			if f.MimeType != "image/jpeg" && f.MimeType != "image/png" && f.MimeType != "image/webp" {
				t.Errorf("Accepted disallowed type %s", f.MimeType)
			}
		}
		if len(result.Accepted)+len(result.Rejections) != end-start {
			t.Errorf("Expected every file to be accounted for")
		}
	}
}
