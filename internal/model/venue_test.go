package model

import (
    "encoding/json"
    "reflect"
    "testing"
)

func TestAmenitiesAcceptsStringOrList(t *testing.T) {
    tests := []struct {
        in   string
        want []string
    }{
        {`{"amenities":"wifi, otopark"}`, []string{"wifi", "otopark"}},
        {`{"amenities":["wifi","otopark"]}`, []string{"wifi", "otopark"}},
        {`{"amenities":null}`, nil},
        {`{}`, nil},
    }
    for _, tt := range tests {
        var d VenueDraft
        if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
            t.Fatalf("unmarshal %s: %v", tt.in, err)
        }
        var got []string
        if d.Amenities != nil {
            got = d.Amenities.List()
        }
        if !reflect.DeepEqual(got, tt.want) {
            t.Errorf("%s: amenities = %v, want %v", tt.in, got, tt.want)
        }
    }
}

func TestAmenitiesRejectsOtherTypes(t *testing.T) {
    var a Amenities
    if err := json.Unmarshal([]byte(`42`), &a); err == nil {
        t.Fatal("number accepted as amenities")
    }
}
