package variants

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/types"
)

// Kind names a selection policy.
type Kind int

const (
	// Highest picks the first (largest) variant. It is the default.
	Highest Kind = iota
	// SecondHighest picks the runner-up, or the only variant of a one-item list.
	SecondHighest
	// Lowest picks the last (smallest) variant.
	Lowest
	// ExactSize picks the first variant whose size equals Criterion.Size and
	// falls back to a label substring match on Criterion.Label.
	ExactSize
	// LabelSubstring picks the first variant whose quality label contains
	// Criterion.Label, ignoring case.
	LabelSubstring
	// Scripted delegates the choice to Criterion.Chooser.
	Scripted
)

func (k Kind) String() string {
	switch k {
	case Highest:
		return "highest"
	case SecondHighest:
		return "second-highest"
	case Lowest:
		return "lowest"
	case ExactSize:
		return "exact-size"
	case LabelSubstring:
		return "label-substring"
	case Scripted:
		return "scripted"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Chooser picks a variant by index. A negative index means no match.
type Chooser interface {
	Choose(list types.VariantList) (int, error)
}

// Criterion is the single selection policy active for a run.
type Criterion struct {
	Kind    Kind
	Size    int
	Label   string
	Input   string
	Chooser Chooser
}

// ParseCriterion turns free-form user input into a Criterion.
//
// Empty input, "best" and "highest" select the highest variant; "second" and
// "second-highest" the legacy runner-up policy; "worst" and "lowest" the
// smallest. Anything else is lower-cased with one trailing "p" removed, so
// "720p", "720P" and "720" all become ExactSize(720); input that is not a
// number becomes a LabelSubstring criterion.
func ParseCriterion(input string) Criterion {
	q := strings.ToLower(strings.TrimSpace(input))
	switch q {
	case "", "best", "highest":
		return Criterion{Kind: Highest, Input: input}
	case "second", "second-highest", "second_highest":
		return Criterion{Kind: SecondHighest, Input: input}
	case "worst", "lowest":
		return Criterion{Kind: Lowest, Input: input}
	}

	qnum := strings.TrimSuffix(q, "p")
	if isDigits(qnum) {
		if n, err := strconv.Atoi(qnum); err == nil {
			return Criterion{Kind: ExactSize, Size: n, Label: qnum, Input: input}
		}
	}
	return Criterion{Kind: LabelSubstring, Label: qnum, Input: input}
}

// Script returns a Scripted criterion backed by c. name is used in diagnostics.
func Script(c Chooser, name string) Criterion {
	return Criterion{Kind: Scripted, Chooser: c, Input: name}
}

// String renders the criterion for logs.
func (c Criterion) String() string {
	switch c.Kind {
	case ExactSize:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Size)
	case LabelSubstring:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Label)
	case Scripted:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Input)
	}
	return c.Kind.String()
}

// Select returns a pointer into list for the variant matching c.
//
// An explicit criterion that matches nothing fails with
// *errs.VariantNotFoundError listing the available quality labels; it never
// degrades to the highest variant.
func Select(list types.VariantList, c Criterion) (*types.Variant, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: nothing to select from", errs.ErrNoVariantsFound)
	}

	switch c.Kind {
	case Highest:
		return &list[0], nil
	case SecondHighest:
		if len(list) > 1 {
			return &list[1], nil
		}
		return &list[0], nil
	case Lowest:
		return &list[len(list)-1], nil
	case ExactSize:
		for i := range list {
			if list[i].Size == c.Size {
				return &list[i], nil
			}
		}
		if i := indexByLabel(list, c.Label); i >= 0 {
			return &list[i], nil
		}
	case LabelSubstring:
		if i := indexByLabel(list, c.Label); i >= 0 {
			return &list[i], nil
		}
	case Scripted:
		if c.Chooser == nil {
			return nil, notFound(list, c)
		}
		i, err := c.Chooser.Choose(list)
		if err != nil {
			return nil, fmt.Errorf("%w (script: %v)", notFound(list, c), err)
		}
		if i >= 0 && i < len(list) {
			return &list[i], nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown criterion %d", errs.ErrVariantNotFound, int(c.Kind))
	}
	return nil, notFound(list, c)
}

func indexByLabel(list types.VariantList, label string) int {
	for i := range list {
		if qualityContains(list[i].Quality, label) {
			return i
		}
	}
	return -1
}

func notFound(list types.VariantList, c Criterion) *errs.VariantNotFoundError {
	requested := c.Input
	if requested == "" {
		requested = c.String()
	}
	return &errs.VariantNotFoundError{Requested: requested, Available: list.Qualities()}
}
