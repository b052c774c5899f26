package variants

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/types"
)

const playerFragment = `<div class="player">
<video id="vid" controls>
  <source src="https://cdn.example.com/v/480/clip_abc.mp4?token=a" type="video/mp4" size="480">
  <source src="https://cdn.example.com/v/1080/clip_abc.mp4?token=b" type="video/mp4" size="1080">
  <source src="https://cdn.example.com/v/720/clip_abc.mp4?token=c" type="video/mp4" size="720">
</video>
</div>`

func TestParse_SortedDescending(t *testing.T) {
	list, err := Parse(playerFragment)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []int{1080, 720, 480}
	if len(list) != len(want) {
		t.Fatalf("got %d records, want %d", len(list), len(want))
	}
	for i, size := range want {
		if list[i].Size != size {
			t.Errorf("list[%d].Size = %d, want %d", i, list[i].Size, size)
		}
		if list[i].Quality != types.QualityLabel(size) {
			t.Errorf("list[%d].Quality = %q", i, list[i].Quality)
		}
		if list[i].MediaType != "video/mp4" {
			t.Errorf("list[%d].MediaType = %q", i, list[i].MediaType)
		}
	}
	if list[0].URL != "https://cdn.example.com/v/1080/clip_abc.mp4?token=b" {
		t.Errorf("unexpected URL for 1080: %s", list[0].URL)
	}
}

func TestParse_AttributeOrderTolerant(t *testing.T) {
	frag := `<source size="720" type="video/mp4" data-x="1" src="https://a/720.mp4">
<SOURCE TYPE="VIDEO/MP4" SRC="https://a/360.mp4" label="low" SIZE="360"/>
<source src='https://a/240.mp4' size=240>`
	list, err := Parse(frag)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := list.Qualities()
	want := []string{"720p", "360p", "240p"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParse_RequiresSrcAndNumericSize(t *testing.T) {
	frag := `<source type="video/mp4" size="1080">
<source src="" type="video/mp4" size="1080">
<source src="https://a/x.mp4" type="video/mp4">
<source src="https://a/y.mp4" type="video/mp4" size="hd">
<source src="https://a/z.mp4" type="video/mp4" size="-480">
<source src="https://a/w.webm" type="video/webm" size="720">
<img src="https://a/poster.jpg" size="720">
<source src="https://a/ok.mp4" type="video/mp4; codecs=avc1" size="480">`
	list, err := Parse(frag)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(list) != 1 || list[0].URL != "https://a/ok.mp4" || list[0].Size != 480 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].MediaType != "video/mp4" {
		t.Errorf("parameters should be stripped from media type, got %q", list[0].MediaType)
	}
}

func TestParse_Dedup(t *testing.T) {
	frag := `<source src="https://a/720.mp4" type="video/mp4" size="720">
<source src="https://a/720.mp4" type="video/mp4" size="720">
<source src="https://a/720.mp4" type="video/mp4" size="480">
<source src="https://b/720.mp4" type="video/mp4" size="720">`
	list, err := Parse(frag)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := types.VariantList{
		types.NewVariant("https://a/720.mp4", 720, "video/mp4"),
		types.NewVariant("https://b/720.mp4", 720, "video/mp4"),
		types.NewVariant("https://a/720.mp4", 480, "video/mp4"),
	}
	if !reflect.DeepEqual(list, want) {
		t.Fatalf("got %+v\nwant %+v", list, want)
	}
}

func TestParse_StableTies(t *testing.T) {
	frag := `<source src="https://a/first.mp4" size="720">
<source src="https://a/big.mp4" size="1080">
<source src="https://a/second.mp4" size="720">`
	list, err := Parse(frag)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if list[1].URL != "https://a/first.mp4" || list[2].URL != "https://a/second.mp4" {
		t.Fatalf("ties must keep document order: %+v", list)
	}
}

func TestParse_KeepsPercentEscapes(t *testing.T) {
	frag := `<source src="https://a/my%20clip.mp4?x=1&amp;y=2" type="video/mp4" size="720">`
	list, err := Parse(frag)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if list[0].URL != "https://a/my%20clip.mp4?x=1&y=2" {
		t.Fatalf("got %q", list[0].URL)
	}
}

func TestParse_Idempotent(t *testing.T) {
	a, errA := Parse(playerFragment)
	b, errB := Parse(playerFragment)
	if errA != nil || errB != nil {
		t.Fatalf("Parse errors: %v, %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("parsing the same fragment twice should yield identical lists")
	}
}

func TestParse_NoVariants(t *testing.T) {
	for _, frag := range []string{
		"",
		"<div>nothing here</div>",
		`<source src="https://a/x.mp4" type="video/mp4">`,
		`<video src="https://a/x.mp4" size="720"></video>`,
	} {
		list, err := Parse(frag)
		if list != nil || !errors.Is(err, errs.ErrNoVariantsFound) {
			t.Errorf("%q -> list=%v err=%v; want ErrNoVariantsFound", frag, list, err)
		}
	}
}
