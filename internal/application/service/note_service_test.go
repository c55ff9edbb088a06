package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{" Urgent ", "urgent", "", "Follow-Up"}, []string{"urgent", "follow-up"}},
		{[]string{"a", "B", "b", "A"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type noteFixture struct {
	svc   *NoteService
	notes *fakeNoteRepo
	shop  entity.Shop
	other entity.Shop
	bill  entity.Bill
}

func newNoteFixture() *noteFixture {
	shop := entity.Shop{ID: uuid.New(), Name: "Nimal Mart"}
	bill := entity.Bill{ID: uuid.New(), ShopID: shop.ID, Number: "B-9"}
	other := entity.Shop{ID: uuid.New(), Name: "Other Mart"}
	f := &noteFixture{notes: newFakeNoteRepo(), shop: shop, other: other, bill: bill}
	f.svc = NewNoteService(f.notes, newFakeShopRepo(shop, other), newFakeBillRepo(bill))
	return f
}

func TestCreateNote(t *testing.T) {
	f := newNoteFixture()
	ctx := context.Background()

	note, err := f.svc.CreateNote(ctx, &CreateNoteInput{
		Date:    fixedNow,
		Title:   "Call owner",
		Content: "Discuss the March balance",
		ShopID:  &f.shop.ID,
		BillID:  &f.bill.ID,
		Tags:    []string{"Payments", "payments "},
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if note.Priority != enum.PriorityMedium {
		t.Errorf("priority = %s, want medium default", note.Priority)
	}
	if !reflect.DeepEqual(note.Tags, []string{"payments"}) {
		t.Errorf("tags = %q", note.Tags)
	}
	if note.Date.Hour() != 0 {
		t.Errorf("date not truncated: %v", note.Date)
	}

	tests := []struct {
		name  string
		input CreateNoteInput
		field string
	}{
		{"urgent not allowed", CreateNoteInput{Date: fixedNow, Title: "t", Content: "c", Priority: enum.PriorityUrgent}, "priority"},
		{"missing date", CreateNoteInput{Title: "t", Content: "c"}, "date"},
		{"unknown bill", CreateNoteInput{Date: fixedNow, Title: "t", Content: "c", BillID: ptr(uuid.New())}, "bill_id"},
		{"unknown shop", CreateNoteInput{Date: fixedNow, Title: "t", Content: "c", ShopID: ptr(uuid.New())}, "shop_id"},
		{"bill of another shop", CreateNoteInput{Date: fixedNow, Title: "t", Content: "c", ShopID: &f.other.ID, BillID: &f.bill.ID}, "bill_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			_, err := f.svc.CreateNote(ctx, &in)
			assertField(t, err, tt.field)
		})
	}
}

func TestUpdateNoteDetachesLinks(t *testing.T) {
	f := newNoteFixture()
	ctx := context.Background()
	note, err := f.svc.CreateNote(ctx, &CreateNoteInput{Date: fixedNow, Title: "t", Content: "c", ShopID: &f.shop.ID, BillID: &f.bill.ID})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	updated, err := f.svc.UpdateNote(ctx, &UpdateNoteInput{ID: note.ID, ClearBill: true, Tags: []string{"Done"}})
	if err != nil {
		t.Fatalf("UpdateNote() error = %v", err)
	}
	if updated.BillID != nil || updated.ShopID == nil {
		t.Errorf("links = shop %v bill %v, want shop kept and bill cleared", updated.ShopID, updated.BillID)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"done"}) {
		t.Errorf("tags = %q", updated.Tags)
	}
}

func TestListNotesNormalisesTagFilter(t *testing.T) {
	f := newNoteFixture()
	_, err := f.svc.ListNotes(context.Background(), &pagination.PaginationParams{Page: 1, PerPage: 10}, repository.NoteFilter{Tag: "  Payments "})
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	if f.notes.lastFilter.Tag != "payments" {
		t.Errorf("tag filter = %q, want payments", f.notes.lastFilter.Tag)
	}

	_, err = f.svc.ListNotes(context.Background(), &pagination.PaginationParams{Page: 1, PerPage: 10}, repository.NoteFilter{Priority: enum.PriorityUrgent})
	if err == nil {
		t.Fatalf("expected error for urgent note priority filter")
	}
}
