package types

import "strconv"

// ResourceID is the numeric token taken from a page URL. It namespaces the
// metadata request and the output filename of one invocation.
type ResourceID = string

// Variant describes one downloadable quality of a resource.
type Variant struct {
	URL       string
	Size      int
	MediaType string
	Quality   string
}

// NewVariant builds a Variant and derives its quality label from size.
func NewVariant(url string, size int, mediaType string) Variant {
	return Variant{URL: url, Size: size, MediaType: mediaType, Quality: QualityLabel(size)}
}

// QualityLabel renders a size tag as a human label, e.g. 720 -> "720p".
func QualityLabel(size int) string {
	return strconv.Itoa(size) + "p"
}

// VariantList is ordered by Size descending; index 0 is the highest quality.
type VariantList []Variant

// Qualities returns the quality labels in list order.
func (l VariantList) Qualities() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		out = append(out, v.Quality)
	}
	return out
}

// TransferTarget pairs the remote media URL with the local output path.
type TransferTarget struct {
	RemoteURL string
	LocalPath string
}

// Progress describes the state of an ongoing transfer. TotalSize is zero or
// negative when the remote did not declare a length; Percent is then zero.
type Progress struct {
	TotalSize      int64
	DownloadedSize int64
	Percent        float64
}

// Known reports whether the total size of the transfer is known.
func (p Progress) Known() bool { return p.TotalSize > 0 }
