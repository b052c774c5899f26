package variants

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/internal/mimeext"
	"github.com/ytget/tnadl/types"
)

const sourceTag = "source"

type dedupKey struct {
	url  string
	size int
}

// Parse extracts the variants declared by <source> tags in fragment.
//
// A tag yields a record only when it has a non-empty src and a size made of
// decimal digits; a type attribute, if present, must be video/mp4. Records
// repeating an earlier (src, size) pair are dropped. The list is stable-sorted
// by size descending. URLs are kept exactly as written, apart from HTML
// character references which the tokenizer resolves.
func Parse(fragment string) (types.VariantList, error) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	seen := make(map[dedupKey]struct{})
	var list types.VariantList

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if !hasAttr || string(name) != sourceTag {
			continue
		}

		v, ok := variantFromAttrs(readAttrs(z))
		if !ok {
			continue
		}
		key := dedupKey{url: v.URL, size: v.Size}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		list = append(list, v)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no <source> tag with src and size in %d bytes of html", errs.ErrNoVariantsFound, len(fragment))
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Size > list[j].Size })
	return list, nil
}

// readAttrs collects the attributes of the current tag. Keys are lower-cased
// by the tokenizer; the first occurrence of a repeated key wins.
func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string, 4)
	for {
		key, val, more := z.TagAttr()
		k := string(key)
		if _, exists := attrs[k]; !exists {
			attrs[k] = string(val)
		}
		if !more {
			return attrs
		}
	}
}

func variantFromAttrs(attrs map[string]string) (types.Variant, bool) {
	src := strings.TrimSpace(attrs["src"])
	if src == "" {
		return types.Variant{}, false
	}
	sizeStr := strings.TrimSpace(attrs["size"])
	if !isDigits(sizeStr) {
		return types.Variant{}, false
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return types.Variant{}, false
	}

	mediaType, present := attrs["type"]
	if !present {
		mediaType = mimeext.MimeVideoMP4
	}
	if !acceptMediaType(mediaType) {
		return types.Variant{}, false
	}
	return types.NewVariant(src, size, baseMediaType(mediaType)), true
}
