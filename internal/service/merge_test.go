package service

import (
    "testing"

    "github.com/edirne-events/events-api/internal/model"
)

func TestMergeEventFieldsOverrideAndFallback(t *testing.T) {
    base := model.EventFields{
        Title:       "Eski Başlık",
        Description: strp("eski açıklama"),
        Location:    "Kaleiçi",
        StartDate:   "2025-07-01",
        StartTime:   strp("20:00"),
    }
    got, err := MergeEventFields(base, model.EventDraft{
        Title:       strp("   "),
        Description: strp(" yeni açıklama "),
        StartDate:   strp("05.07.2025"),
        StartTime:   strp("19:30:00"),
    })
    if err != nil {
        t.Fatalf("MergeEventFields: %v", err)
    }
    if got.Title != "Eski Başlık" {
        t.Errorf("blank title override should keep stored title, got %q", got.Title)
    }
    if got.Description == nil || *got.Description != "yeni açıklama" {
        t.Errorf("description = %v", got.Description)
    }
    if got.StartDate != "2025-07-05" {
        t.Errorf("start date = %q, want 2025-07-05", got.StartDate)
    }
    if got.StartTime == nil || *got.StartTime != "19:30" {
        t.Errorf("start time = %v, want 19:30", got.StartTime)
    }
    if got.Location != "Kaleiçi" {
        t.Errorf("location = %q", got.Location)
    }
}

func TestMergeEventFieldsLocationPrecedence(t *testing.T) {
    tests := []struct {
        name     string
        stored   string
        address  *string
        location *string
        venue    *string
        want     string
    }{
        {"location override wins", "Kaleiçi", strp("Saraçlar Cd."), strp("Selimiye"), strp("Sarayiçi"), "Selimiye"},
        {"venue alias next", "Kaleiçi", nil, strp(" "), strp("Sarayiçi"), "Sarayiçi"},
        {"stored location kept", "Kaleiçi", strp("Saraçlar Cd."), nil, nil, "Kaleiçi"},
        {"address as last resort", "", strp("Saraçlar Cd."), nil, nil, "Saraçlar Cd."},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            base := model.EventFields{Title: "x", StartDate: "2025-07-01", Location: tt.stored, Address: tt.address}
            got, err := MergeEventFields(base, model.EventDraft{Location: tt.location, Venue: tt.venue})
            if err != nil {
                t.Fatalf("MergeEventFields: %v", err)
            }
            if got.Location != tt.want {
                t.Fatalf("location = %q, want %q", got.Location, tt.want)
            }
        })
    }
}

func TestMergeEventFieldsErrors(t *testing.T) {
    base := model.EventFields{Title: "x", Location: "y", StartDate: "2025-07-01"}
    tests := []struct {
        name string
        d    model.EventDraft
    }{
        {"unparseable date", model.EventDraft{StartDate: strp("2025/07/01")}},
        {"unparseable time", model.EventDraft{EndTime: strp("25:99")}},
        {"end before start", model.EventDraft{EndDate: strp("2025-06-30")}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := MergeEventFields(base, tt.d)
            if !IsValidation(err) {
                t.Fatalf("err = %v, want validation error", err)
            }
            if got.StartDate != base.StartDate {
                t.Fatalf("failed merge should return the stored fields")
            }
        })
    }
}

func TestParseDateLayouts(t *testing.T) {
    for _, in := range []string{"2025-07-05", "2025-07-05T10:00:00+03:00", "2025-07-05T10:00", "2025-07-05 10:00:00", "05.07.2025", " 2025-07-05 "} {
        got, err := ParseDate(in)
        if err != nil || got != "2025-07-05" {
            t.Errorf("ParseDate(%q) = %q, %v", in, got, err)
        }
    }
}

func TestMergePrice(t *testing.T) {
    tests := []struct {
        override, base *string
        want           string
    }{
        {nil, nil, "0"},
        {nil, strp("100 TL"), "100 TL"},
        {strp(" 50 "), strp("100 TL"), "50"},
        {strp(""), strp("100 TL"), "100 TL"},
        {nil, strp("  "), "0"},
    }
    for _, tt := range tests {
        if got := MergePrice(tt.override, tt.base); got != tt.want {
            t.Errorf("MergePrice = %q, want %q", got, tt.want)
        }
    }
}

func TestMergeVenueFieldsCategory(t *testing.T) {
    four := uint64(4)
    base := model.VenueFields{Name: "Kırkpınar Evi", Address: "Sarayiçi", CategoryID: &four}

    got, err := MergeVenueFields(base, model.VenueDraft{CategoryIDs: []uint64{7, 8}})
    if err != nil {
        t.Fatalf("MergeVenueFields: %v", err)
    }
    if got.CategoryID == nil || *got.CategoryID != 7 {
        t.Fatalf("category = %v, want first of list", got.CategoryID)
    }

    zero := uint64(0)
    got, err = MergeVenueFields(base, model.VenueDraft{CategoryID: &zero})
    if err != nil {
        t.Fatalf("MergeVenueFields: %v", err)
    }
    if got.CategoryID == nil || *got.CategoryID != 4 {
        t.Fatalf("category = %v, want stored 4", got.CategoryID)
    }

    if _, err := MergeVenueFields(model.VenueFields{Address: "x"}, model.VenueDraft{}); !IsValidation(err) {
        t.Fatalf("missing name: err = %v", err)
    }
}
