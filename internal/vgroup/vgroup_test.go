package vgroup

import (
	"reflect"
	"testing"
)

func TestParseEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		group *Group
	}{
		{
			name: "swath",
			group: &Group{
				Members: []TagRef{{1965, 3}, {1965, 4}, {1962, 7}},
				Name:    "Earth UV-1 Swath",
				Class:   "SWATH",
			},
		},
		{
			name:  "empty",
			group: &Group{Name: "Swath Attributes", Class: "SWATH Vgroup"},
		},
		{
			name: "with attributes",
			group: &Group{
				Members: []TagRef{{720, 2}},
				Name:    "Radiance",
				Class:   "Var0.0",
				Attrs:   []Attr{{1962, 11}, {1962, 12}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(9, Encode(tt.group))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got.Ref != 9 {
				t.Errorf("expected ref 9, got %d", got.Ref)
			}
			if got.Name != tt.group.Name || got.Class != tt.group.Class {
				t.Errorf("got %q/%q, want %q/%q", got.Name, got.Class, tt.group.Name, tt.group.Class)
			}
			if len(got.Members) != len(tt.group.Members) {
				t.Fatalf("expected %d members, got %d", len(tt.group.Members), len(got.Members))
			}
			for i := range got.Members {
				if got.Members[i] != tt.group.Members[i] {
					t.Errorf("member %d = %v, want %v", i, got.Members[i], tt.group.Members[i])
				}
			}
			if !reflect.DeepEqual(got.Attrs, tt.group.Attrs) && len(tt.group.Attrs) > 0 {
				t.Errorf("attrs = %v, want %v", got.Attrs, tt.group.Attrs)
			}
			wantVersion := Version3
			if len(tt.group.Attrs) > 0 {
				wantVersion = Version4
			}
			if got.Version != wantVersion {
				t.Errorf("version = %d, want %d", got.Version, wantVersion)
			}
		})
	}
}

func TestParseTruncated(t *testing.T) {
	full := Encode(&Group{Members: []TagRef{{1965, 3}}, Name: "Data Fields", Class: "SWATH Vgroup"})

	for _, n := range []int{0, 1, 3, 7, 10} {
		if _, err := Parse(1, full[:n]); err == nil {
			t.Errorf("expected error parsing %d-byte prefix", n)
		}
	}
}
