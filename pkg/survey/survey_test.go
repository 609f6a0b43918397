package survey

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestItemJSON(t *testing.T) {
	item := Item{
		Name:   "LOTE 01",
		Origin: &Point{X: 1000, Y: 2000},
		Area:   Float(360),
		Segments: []Segment{
			Line{Length: 12, Azimuth: NewAzimuth(90, true)},
			Curve{ArcLength: 15.71, Radius: 10, Azimuth: Azimuth{}},
		},
	}

	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if !strings.Contains(string(b), `"type":"curve"`) || !strings.Contains(string(b), `"azimuth":null`) {
		t.Errorf("Marshal = %s, want tagged curve with null azimuth", b)
	}

	var back Item
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if diff := cmp.Diff(item, back); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestItemUnknownSegment(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"name":"X","segments":[{"type":"spiral"}]}`), &it)
	if err == nil {
		t.Error("Unmarshal accepted unknown segment type")
	}
}

func TestSegmentAccessors(t *testing.T) {
	segs := []Segment{
		Line{Length: 5, Azimuth: NewAzimuth(10, true)},
		Curve{ArcLength: 7, Radius: 3, Azimuth: NewAzimuth(20, true)},
	}
	want := []float64{5, 7}
	for i, s := range segs {
		if got := s.Measured(); got != want[i] {
			t.Errorf("segment %d Measured() = %v, want %v", i, got, want[i])
		}
	}
	if got := (Item{}).AreaOr(-1); got != -1 {
		t.Errorf("AreaOr() = %v, want -1", got)
	}
}
