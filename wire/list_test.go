package wire

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/luca-patrignani/blockledger/peers"
)

// TestNewListNeverNull verifies that an empty list encodes as an array.
func TestNewListNeverNull(t *testing.T) {
	raw, err := json.Marshal(NewList[peers.Entry](nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"items":[]}` {
		t.Fatalf(`expected {"items":[]}, actual %s`, string(raw))
	}

	raw, err = json.Marshal(PeerList(NewList([]peers.Entry{{Peer: "http://a"}})))
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"items":[{"peer":"http://a"}]}`
	if string(raw) != expected {
		t.Fatalf("expected %s, actual %s", expected, string(raw))
	}
}

// TestLimitsQuery checks the query string sent by clients.
func TestLimitsQuery(t *testing.T) {
	if q := (Limits{FromIndex: 1}).Query(); q != "from_index=1" {
		t.Fatalf("expected from_index=1, actual %s", q)
	}
	if q := (Limits{}).Query(); q != "from_index=0" {
		t.Fatalf("expected from_index=0, actual %s", q)
	}
}

// TestParseLimits covers the accepted and rejected values of from_index.
func TestParseLimits(t *testing.T) {
	tests := []struct {
		query   string
		want    Limits
		wantErr bool
	}{
		{query: "", want: Limits{}},
		{query: "from_index=0", want: Limits{}},
		{query: "from_index=7", want: Limits{FromIndex: 7}},
		{query: "from_index=-1", wantErr: true},
		{query: "from_index=abc", wantErr: true},
		{query: "from_index=1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}

			got, err := ParseLimits(q)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, actual %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, actual %+v", tt.want, got)
			}
		})
	}

	q, err := url.ParseQuery(Limits{FromIndex: 42}.Query())
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseLimits(q)
	if err != nil {
		t.Fatal(err)
	}
	if got.FromIndex != 42 {
		t.Fatalf("expected 42, actual %d", got.FromIndex)
	}
}
