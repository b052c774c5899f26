package variants

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/types"
)

func threeVariants() types.VariantList {
	return types.VariantList{
		types.NewVariant("u1080", 1080, "video/mp4"),
		types.NewVariant("u720", 720, "video/mp4"),
		types.NewVariant("u480", 480, "video/mp4"),
	}
}

func mustSelect(t *testing.T, list types.VariantList, c Criterion) *types.Variant {
	t.Helper()
	v, err := Select(list, c)
	if err != nil {
		t.Fatalf("Select(%s) error: %v", c, err)
	}
	return v
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in    string
		kind  Kind
		size  int
		label string
	}{
		{"", Highest, 0, ""},
		{"best", Highest, 0, ""},
		{" HIGHEST ", Highest, 0, ""},
		{"second", SecondHighest, 0, ""},
		{"second-highest", SecondHighest, 0, ""},
		{"worst", Lowest, 0, ""},
		{"lowest", Lowest, 0, ""},
		{"720", ExactSize, 720, "720"},
		{"720p", ExactSize, 720, "720"},
		{"720P", ExactSize, 720, "720"},
		{" 480p ", ExactSize, 480, "480"},
		{"hd", LabelSubstring, 0, "hd"},
		{"72o", LabelSubstring, 0, "72o"},
		{"-1", LabelSubstring, 0, "-1"},
	}
	for _, tt := range tests {
		c := ParseCriterion(tt.in)
		if c.Kind != tt.kind || c.Size != tt.size || c.Label != tt.label || c.Input != tt.in {
			t.Errorf("ParseCriterion(%q) = {%v %d %q %q}, want {%v %d %q %q}",
				tt.in, c.Kind, c.Size, c.Label, c.Input, tt.kind, tt.size, tt.label, tt.in)
		}
	}
}

func TestSelect_Policies(t *testing.T) {
	list := threeVariants()
	tests := []struct {
		name string
		c    Criterion
		want int
	}{
		{"highest", Criterion{Kind: Highest}, 1080},
		{"second highest", Criterion{Kind: SecondHighest}, 720},
		{"lowest", Criterion{Kind: Lowest}, 480},
		{"exact size", ParseCriterion("480"), 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustSelect(t, list, tt.c).Size; got != tt.want {
				t.Errorf("size = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelect_ReturnsReference(t *testing.T) {
	list := threeVariants()
	if v := mustSelect(t, list, ParseCriterion("720p")); v != &list[1] {
		t.Errorf("Select returned a copy, want &list[1]")
	}
}

func TestSelect_SecondHighestSingleVariant(t *testing.T) {
	list := types.VariantList{types.NewVariant("only", 360, "video/mp4")}
	if v := mustSelect(t, list, Criterion{Kind: SecondHighest}); v.URL != "only" {
		t.Errorf("URL = %q, want only", v.URL)
	}
}

func TestSelect_ExactSizeMissListsAvailable(t *testing.T) {
	_, err := Select(threeVariants(), ParseCriterion("999"))
	if !errors.Is(err, errs.ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
	var nf *errs.VariantNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *VariantNotFoundError, got %T", err)
	}
	if nf.Requested != "999" {
		t.Errorf("Requested = %q, want 999", nf.Requested)
	}
	if !strings.Contains(err.Error(), "1080p, 720p, 480p") {
		t.Errorf("message %q does not list available qualities", err.Error())
	}
}

func TestSelect_LabelFallback(t *testing.T) {
	list := threeVariants()
	tests := []struct {
		name string
		c    Criterion
		want int
	}{
		// "72" is numeric but no size equals 72, so the label test finds 720p.
		{"numeric miss", ParseCriterion("72"), 720},
		// "8" hits 1080p first because the scan follows list order.
		{"list order", ParseCriterion("8"), 1080},
		{"case insensitive", Criterion{Kind: LabelSubstring, Label: "0P"}, 1080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustSelect(t, list, tt.c).Size; got != tt.want {
				t.Errorf("size = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelect_MalformedInputFallsThrough(t *testing.T) {
	_, err := Select(threeVariants(), ParseCriterion("ultra"))
	var nf *errs.VariantNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *VariantNotFoundError, got %v", err)
	}
	if want := []string{"1080p", "720p", "480p"}; !reflect.DeepEqual(nf.Available, want) {
		t.Errorf("Available = %v, want %v", nf.Available, want)
	}
}

func TestSelect_EmptyList(t *testing.T) {
	if _, err := Select(nil, Criterion{Kind: Highest}); !errors.Is(err, errs.ErrNoVariantsFound) {
		t.Errorf("expected ErrNoVariantsFound, got %v", err)
	}
}

type fixedChooser struct {
	index int
	err   error
}

func (f fixedChooser) Choose(types.VariantList) (int, error) { return f.index, f.err }

func TestSelect_Scripted(t *testing.T) {
	list := threeVariants()

	if v := mustSelect(t, list, Script(fixedChooser{index: 2}, "pick.js")); v.Size != 480 {
		t.Errorf("size = %d, want 480", v.Size)
	}

	for _, ch := range []Chooser{fixedChooser{index: -1}, fixedChooser{index: 3}, fixedChooser{err: errors.New("boom")}, nil} {
		if _, err := Select(list, Script(ch, "pick.js")); !errors.Is(err, errs.ErrVariantNotFound) {
			t.Errorf("chooser %+v: expected ErrVariantNotFound, got %v", ch, err)
		}
	}
}

func TestCriterionString(t *testing.T) {
	tests := []struct {
		c    Criterion
		want string
	}{
		{Criterion{}, "highest"},
		{ParseCriterion("720p"), "exact-size(720)"},
		{ParseCriterion("hd"), `label-substring("hd")`},
		{Script(nil, "pick.js"), "scripted(pick.js)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
