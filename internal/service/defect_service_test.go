package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

const (
	testIMO      = "9301234"
	testOtherIMO = "9307777"
)

type defectFixture struct {
	svc    DefectService
	repo   *repository.Repository
	mocks  *mocks
	mailer *mockMailer

	vesselUser *model.User // assigned to testIMO
	otherCrew  *model.User // also assigned to testIMO
	shoreUser  *model.User
	adminUser  *model.User
	drifter    *model.User // VESSEL role, no assignments
}

func newDefectFixture(t *testing.T) *defectFixture {
	t.Helper()
	repo, m := newMockRepository()
	ctx := context.Background()

	alfa := &model.Vessel{IMO: testIMO, Name: "MV Alfa", IsActive: true}
	bravo := &model.Vessel{IMO: testOtherIMO, Name: "MV Bravo", IsActive: true}
	m.vessels.Create(ctx, alfa)
	m.vessels.Create(ctx, bravo)

	f := &defectFixture{repo: repo, mocks: m, mailer: &mockMailer{}}

	f.vesselUser = &model.User{
		UserID: "u-vessel", Email: "chief@alfa.test", FullName: "Chief Engineer",
		Role: model.RoleVessel, IsActive: true, Vessels: []model.Vessel{*alfa},
	}
	f.otherCrew = &model.User{
		UserID: "u-crew", Email: "second@alfa.test", FullName: "Second Engineer",
		Role: model.RoleVessel, IsActive: true, Vessels: []model.Vessel{*alfa},
	}
	f.shoreUser = &model.User{
		UserID: "u-shore", Email: "super@office.test", FullName: "Superintendent",
		Role: model.RoleShore, IsActive: true,
	}
	f.adminUser = &model.User{
		UserID: "u-admin", Email: "admin@office.test", FullName: "Fleet Admin",
		Role: model.RoleAdmin, IsActive: true,
	}
	f.drifter = &model.User{
		UserID: "u-drifter", Email: "drifter@alfa.test", FullName: "Unassigned",
		Role: model.RoleVessel, IsActive: true,
	}
	for _, u := range []*model.User{f.vesselUser, f.otherCrew, f.shoreUser, f.adminUser, f.drifter} {
		m.users.Create(ctx, u)
	}

	notifier := NewNotifier(zap.NewNop())
	f.svc = NewDefectService(repo, notifier, f.mailer, zap.NewNop())
	return f
}

func (f *defectFixture) createDefect(t *testing.T, actorID, id, imo string) (*dto.DefectResponse, bool) {
	t.Helper()
	resp, created, err := f.svc.Create(context.Background(), actorID, &dto.CreateDefectRequest{
		ID:            id,
		VesselIMO:     imo,
		Title:         "Main engine LO pressure low",
		EquipmentName: "Main Engine",
		Description:   "LO pressure drops below alarm threshold at full load",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return resp, created
}

func TestCreateDefectDefaultsAndFanOut(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()

	resp, created := f.createDefect(t, f.vesselUser.UserID, "11111111-1111-1111-1111-111111111111", "")
	if !created {
		t.Fatal("first submission not reported as created")
	}

	if resp.VesselIMO != testIMO {
		t.Fatalf("vessel imo = %q, want %q", resp.VesselIMO, testIMO)
	}
	if resp.Status != "OPEN" || resp.Priority != "NORMAL" || resp.DefectSource != "Internal Audit" {
		t.Fatalf("defaults wrong: status=%s priority=%s source=%s", resp.Status, resp.Priority, resp.DefectSource)
	}

	// Fan-out reaches the other crew member but not the reporter.
	if notifs, _ := f.mocks.notifications.ListByUser(ctx, f.otherCrew.UserID); len(notifs) != 1 {
		t.Fatalf("other crew notifications = %d, want 1", len(notifs))
	}
	if notifs, _ := f.mocks.notifications.ListByUser(ctx, f.vesselUser.UserID); len(notifs) != 0 {
		t.Fatalf("reporter notifications = %d, want 0", len(notifs))
	}

	if len(f.mailer.events) != 1 || f.mailer.events[0] != EmailDefectCreated {
		t.Fatalf("mail events = %v, want [CREATED]", f.mailer.events)
	}
}

func TestCreateDefectIdempotent(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "22222222-2222-2222-2222-222222222222"

	first, firstCreated := f.createDefect(t, f.vesselUser.UserID, id, "")
	second, secondCreated := f.createDefect(t, f.vesselUser.UserID, id, "")

	if first.ID != second.ID {
		t.Fatalf("ids differ: %s vs %s", first.ID, second.ID)
	}
	if !firstCreated || secondCreated {
		t.Fatalf("created flags = %v, %v, want true, false", firstCreated, secondCreated)
	}

	// The retry fires no second round of side effects.
	if notifs, _ := f.mocks.notifications.ListByUser(ctx, f.otherCrew.UserID); len(notifs) != 1 {
		t.Fatalf("notifications after retry = %d, want 1", len(notifs))
	}
	if len(f.mailer.events) != 1 {
		t.Fatalf("mail events after retry = %d, want 1", len(f.mailer.events))
	}
}

func TestCreateDefectRejectsUnknownEnums(t *testing.T) {
	f := newDefectFixture(t)

	_, _, err := f.svc.Create(context.Background(), f.vesselUser.UserID, &dto.CreateDefectRequest{
		ID:            "33333333-3333-3333-3333-333333333333",
		Title:         "t",
		EquipmentName: "e",
		Description:   "d",
		Priority:      "URGENT", // not a valid priority
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateDefectStatusCannotStartClosed(t *testing.T) {
	f := newDefectFixture(t)

	_, _, err := f.svc.Create(context.Background(), f.vesselUser.UserID, &dto.CreateDefectRequest{
		ID:            "44444444-4444-4444-4444-444444444444",
		Title:         "t",
		EquipmentName: "e",
		Description:   "d",
		Status:        "CLOSED",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateDefectVesselUserForeignShip(t *testing.T) {
	f := newDefectFixture(t)

	_, _, err := f.svc.Create(context.Background(), f.vesselUser.UserID, &dto.CreateDefectRequest{
		ID:            "55555555-5555-5555-5555-555555555555",
		VesselIMO:     testOtherIMO,
		Title:         "t",
		EquipmentName: "e",
		Description:   "d",
	})
	if !errors.Is(err, ErrVesselNotAllowed) {
		t.Fatalf("err = %v, want ErrVesselNotAllowed", err)
	}
}

func TestListVisibility(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()

	f.createDefect(t, f.vesselUser.UserID, "66666666-6666-6666-6666-666666666666", testIMO)
	f.createDefect(t, f.shoreUser.UserID, "77777777-7777-7777-7777-777777777777", testOtherIMO)

	vesselView, err := f.svc.List(ctx, f.vesselUser.UserID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(vesselView) != 1 || vesselView[0].VesselIMO != testIMO {
		t.Fatalf("vessel user sees %d defects, want 1 on own ship", len(vesselView))
	}

	shoreView, err := f.svc.List(ctx, f.shoreUser.UserID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(shoreView) != 2 {
		t.Fatalf("shore user sees %d defects, want 2", len(shoreView))
	}

	filtered, err := f.svc.List(ctx, f.shoreUser.UserID, testOtherIMO)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(filtered) != 1 || filtered[0].VesselIMO != testOtherIMO {
		t.Fatalf("filtered list = %d defects, want 1 on %s", len(filtered), testOtherIMO)
	}
}

func TestListVesselUserWithoutAssignmentsSeesNothing(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()

	f.createDefect(t, f.vesselUser.UserID, "88888888-8888-8888-8888-888888888888", testIMO)

	view, err := f.svc.List(ctx, f.drifter.UserID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(view) != 0 {
		t.Fatalf("unassigned vessel user sees %d defects, want 0", len(view))
	}
}

func TestPriorityChangeWritesSystemThread(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "99999999-9999-9999-9999-999999999999"

	f.createDefect(t, f.shoreUser.UserID, id, testIMO)

	critical := "CRITICAL"
	if _, err := f.svc.Update(ctx, f.shoreUser.UserID, id, &dto.UpdateDefectRequest{Priority: &critical}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	threads, _ := f.mocks.threads.ListByDefect(ctx, id)
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1 system message", len(threads))
	}
	if !threads[0].IsSystemMessage {
		t.Fatal("priority-change thread is not a system message")
	}
	if threads[0].Body != "Priority changed from NORMAL to CRITICAL" {
		t.Fatalf("thread body = %q", threads[0].Body)
	}

	// Escalation notifies the whole crew, not the actor.
	for _, u := range []*model.User{f.vesselUser, f.otherCrew} {
		notifs, _ := f.mocks.notifications.ListByUser(ctx, u.UserID)
		if len(notifs) != 2 { // create + escalation
			t.Fatalf("%s notifications = %d, want 2", u.UserID, len(notifs))
		}
	}

	if len(f.mailer.events) != 2 || f.mailer.events[1] != EmailDefectUpdated {
		t.Fatalf("mail events = %v, want [CREATED UPDATED]", f.mailer.events)
	}
}

func TestUpdateWithoutPriorityChangeIsQuiet(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "aaaaaaaa-1111-1111-1111-111111111111"

	f.createDefect(t, f.shoreUser.UserID, id, testIMO)

	desc := "updated description"
	if _, err := f.svc.Update(ctx, f.shoreUser.UserID, id, &dto.UpdateDefectRequest{Description: &desc}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	threads, _ := f.mocks.threads.ListByDefect(ctx, id)
	if len(threads) != 0 {
		t.Fatalf("threads = %d, want 0 for a plain edit", len(threads))
	}
	if len(f.mailer.events) != 1 { // only the creation email
		t.Fatalf("mail events = %v, want just [CREATED]", f.mailer.events)
	}
}

func TestCloseDefect(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "bbbbbbbb-1111-1111-1111-111111111111"

	f.createDefect(t, f.vesselUser.UserID, id, testIMO)

	resp, err := f.svc.Close(ctx, f.vesselUser.UserID, id, &dto.CloseDefectRequest{
		ClosureRemarks:     "Replaced LO filter cartridge",
		ClosureImageBefore: "blobs/before.jpg",
		ClosureImageAfter:  "blobs/after.jpg",
	})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	if resp.Status != "CLOSED" {
		t.Fatalf("status = %s, want CLOSED", resp.Status)
	}
	if resp.ClosedAt == nil || resp.ClosedByID == nil || *resp.ClosedByID != f.vesselUser.UserID {
		t.Fatal("closure metadata not stamped")
	}
	if resp.ClosureRemarks == nil || *resp.ClosureRemarks != "Replaced LO filter cartridge" {
		t.Fatal("closure remarks not recorded")
	}
	if time.Since(*resp.ClosedAt) > time.Minute {
		t.Fatal("closed_at not recent")
	}

	threads, _ := f.mocks.threads.ListByDefect(ctx, id)
	if len(threads) != 1 || !threads[0].IsSystemMessage {
		t.Fatalf("expected one system thread after close, got %d", len(threads))
	}

	if len(f.mailer.events) != 2 || f.mailer.events[1] != EmailDefectClosed {
		t.Fatalf("mail events = %v, want [CREATED CLOSED]", f.mailer.events)
	}

	// Closing twice is rejected, and so is reopening through update.
	if _, err := f.svc.Close(ctx, f.vesselUser.UserID, id, &dto.CloseDefectRequest{
		ClosureRemarks: "again", ClosureImageBefore: "b", ClosureImageAfter: "a",
	}); !errors.Is(err, ErrDefectClosed) {
		t.Fatalf("second close err = %v, want ErrDefectClosed", err)
	}
	open := "OPEN"
	if _, err := f.svc.Update(ctx, f.vesselUser.UserID, id, &dto.UpdateDefectRequest{Status: &open}); !errors.Is(err, ErrDefectClosed) {
		t.Fatalf("reopen err = %v, want ErrDefectClosed", err)
	}
}

func TestSoftDelete(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "cccccccc-1111-1111-1111-111111111111"

	f.createDefect(t, f.shoreUser.UserID, id, testIMO)

	if err := f.svc.Delete(ctx, f.shoreUser.UserID, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	view, _ := f.svc.List(ctx, f.shoreUser.UserID, "")
	if len(view) != 0 {
		t.Fatalf("deleted defect still listed")
	}

	// Still fetchable by id for audit.
	got, err := f.svc.Get(ctx, f.shoreUser.UserID, id)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if !got.IsDeleted {
		t.Fatal("is_deleted not set")
	}

	if len(f.mailer.events) != 2 || f.mailer.events[1] != EmailDefectRemoved {
		t.Fatalf("mail events = %v, want [CREATED REMOVED]", f.mailer.events)
	}

	// Mutations on a deleted defect are rejected.
	if err := f.svc.Delete(ctx, f.shoreUser.UserID, id); !errors.Is(err, ErrDefectNotFound) {
		t.Fatalf("second delete err = %v, want ErrDefectNotFound", err)
	}
}

func TestPrEntryLifecycle(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "dddddddd-1111-1111-1111-111111111111"

	f.createDefect(t, f.vesselUser.UserID, id, testIMO)

	entry, err := f.svc.CreatePrEntry(ctx, f.vesselUser.UserID, id, &dto.CreatePrEntryRequest{
		PrNumber: "PR-2026-0042",
	})
	if err != nil {
		t.Fatalf("CreatePrEntry: %v", err)
	}
	if entry.CreatedByID == nil || *entry.CreatedByID != f.vesselUser.UserID {
		t.Fatal("pr entry creator not recorded")
	}

	entries, err := f.svc.ListPrEntries(ctx, f.shoreUser.UserID, id)
	if err != nil {
		t.Fatalf("ListPrEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].PrNumber != "PR-2026-0042" {
		t.Fatalf("entries = %+v", entries)
	}

	if err := f.svc.DeletePrEntry(ctx, f.shoreUser.UserID, entry.ID); err != nil {
		t.Fatalf("DeletePrEntry: %v", err)
	}
	entries, _ = f.svc.ListPrEntries(ctx, f.shoreUser.UserID, id)
	if len(entries) != 0 {
		t.Fatal("pr entry survived delete")
	}

	if err := f.svc.DeletePrEntry(ctx, f.shoreUser.UserID, "missing"); !errors.Is(err, ErrPrEntryNotFound) {
		t.Fatalf("err = %v, want ErrPrEntryNotFound", err)
	}
}

func TestGetForeignVesselForbidden(t *testing.T) {
	f := newDefectFixture(t)
	ctx := context.Background()
	const id = "eeeeeeee-1111-1111-1111-111111111111"

	f.createDefect(t, f.shoreUser.UserID, id, testOtherIMO)

	if _, err := f.svc.Get(ctx, f.vesselUser.UserID, id); !errors.Is(err, ErrVesselNotAllowed) {
		t.Fatalf("err = %v, want ErrVesselNotAllowed", err)
	}
}
