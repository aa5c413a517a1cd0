package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/model"
)

func newThreadFixture(t *testing.T) (*defectFixture, ThreadService) {
	t.Helper()
	f := newDefectFixture(t)
	notifier := NewNotifier(zap.NewNop())
	svc := NewThreadService(f.repo, notifier, mockSigner{}, zap.NewNop())
	return f, svc
}

func TestCreateThreadWithMentions(t *testing.T) {
	f, svc := newThreadFixture(t)
	ctx := context.Background()
	const defectID = "11111111-2222-2222-2222-222222222222"

	f.createDefect(t, f.vesselUser.UserID, defectID, testIMO)

	resp, created, err := svc.Create(ctx, f.vesselUser.UserID, &dto.CreateThreadRequest{
		ID:            "11111111-3333-3333-3333-333333333333",
		DefectID:      defectID,
		Author:        "Chief Engineer",
		Body:          "Spares on order, @Superintendent please approve the PR",
		TaggedUserIDs: []string{f.shoreUser.UserID, f.adminUser.UserID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("first submission not reported as created")
	}
	if resp.AuthorRole != "Chief Engineer" || resp.IsSystemMessage {
		t.Fatalf("thread response wrong: %+v", resp)
	}

	// Each tagged user gets one task and one mention notification.
	for _, u := range []*model.User{f.shoreUser, f.adminUser} {
		tasks, _ := f.mocks.tasks.ListByAssignee(ctx, u.UserID)
		if len(tasks) != 1 {
			t.Fatalf("%s tasks = %d, want 1", u.UserID, len(tasks))
		}
		if tasks[0].Status != model.TaskPending {
			t.Fatalf("task status = %s, want PENDING", tasks[0].Status)
		}

		notifs, _ := f.mocks.notifications.ListByUser(ctx, u.UserID)
		var mentions int
		for _, n := range notifs {
			if n.Type == model.NotificationMention {
				mentions++
				if !strings.HasPrefix(n.Link, "/shore/") {
					t.Fatalf("shore-side mention link = %q", n.Link)
				}
				if !strings.Contains(n.Link, "highlightDefectId="+defectID) {
					t.Fatalf("mention link missing highlight: %q", n.Link)
				}
			}
		}
		if mentions != 1 {
			t.Fatalf("%s mention notifications = %d, want 1", u.UserID, mentions)
		}
	}
}

func TestCreateThreadIdempotent(t *testing.T) {
	f, svc := newThreadFixture(t)
	ctx := context.Background()
	const defectID = "11111111-4444-4444-4444-444444444444"
	const threadID = "11111111-5555-5555-5555-555555555555"

	f.createDefect(t, f.vesselUser.UserID, defectID, testIMO)

	req := &dto.CreateThreadRequest{
		ID:            threadID,
		DefectID:      defectID,
		Author:        "Chief Engineer",
		Body:          "resending due to flaky satellite link",
		TaggedUserIDs: []string{f.shoreUser.UserID},
	}
	_, firstCreated, err := svc.Create(ctx, f.vesselUser.UserID, req)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, secondCreated, err := svc.Create(ctx, f.vesselUser.UserID, req)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if !firstCreated || secondCreated {
		t.Fatalf("created flags = %v, %v, want true, false", firstCreated, secondCreated)
	}

	threads, _ := f.mocks.threads.ListByDefect(ctx, defectID)
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	// A retried message must not duplicate mention tasks.
	tasks, _ := f.mocks.tasks.ListByAssignee(ctx, f.shoreUser.UserID)
	if len(tasks) != 1 {
		t.Fatalf("tasks after retry = %d, want 1", len(tasks))
	}
}

func TestCreateThreadUnknownTaggedUsersSkipped(t *testing.T) {
	f, svc := newThreadFixture(t)
	ctx := context.Background()
	const defectID = "11111111-6666-6666-6666-666666666666"

	f.createDefect(t, f.vesselUser.UserID, defectID, testIMO)

	_, _, err := svc.Create(ctx, f.vesselUser.UserID, &dto.CreateThreadRequest{
		ID:            "11111111-7777-7777-7777-777777777777",
		DefectID:      defectID,
		Author:        "Chief Engineer",
		Body:          "tagging a ghost",
		TaggedUserIDs: []string{"no-such-user", f.shoreUser.UserID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, _ := f.mocks.tasks.ListByAssignee(ctx, f.shoreUser.UserID)
	if len(tasks) != 1 {
		t.Fatalf("known user tasks = %d, want 1", len(tasks))
	}
}

func TestCreateThreadOnDeletedDefect(t *testing.T) {
	f, svc := newThreadFixture(t)
	ctx := context.Background()
	const defectID = "11111111-8888-8888-8888-888888888888"

	f.createDefect(t, f.shoreUser.UserID, defectID, testIMO)
	if err := f.svc.Delete(ctx, f.shoreUser.UserID, defectID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, _, err := svc.Create(ctx, f.shoreUser.UserID, &dto.CreateThreadRequest{
		ID:       "11111111-9999-9999-9999-999999999999",
		DefectID: defectID,
		Author:   "Superintendent",
		Body:     "too late",
	})
	if !errors.Is(err, ErrDefectNotFound) {
		t.Fatalf("err = %v, want ErrDefectNotFound", err)
	}
}

func TestListThreadsSignsAttachmentURLs(t *testing.T) {
	f, svc := newThreadFixture(t)
	ctx := context.Background()
	const defectID = "22222222-3333-3333-3333-333333333333"
	const threadID = "22222222-4444-4444-4444-444444444444"

	f.createDefect(t, f.vesselUser.UserID, defectID, testIMO)
	if _, _, err := svc.Create(ctx, f.vesselUser.UserID, &dto.CreateThreadRequest{
		ID: threadID, DefectID: defectID, Author: "Chief Engineer", Body: "photo attached",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.CreateAttachment(ctx, f.vesselUser.UserID, &dto.CreateAttachmentRequest{
		ID:       "22222222-5555-5555-5555-555555555555",
		ThreadID: threadID,
		FileName: "lo-pump.jpg",
		FileSize: 512 * 1024,
		BlobPath: "uploads/2026/08/lo-pump.jpg",
	}); err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}

	// Attach to the stored thread so ListByDefect returns it preloaded.
	stored, _ := f.mocks.threads.GetByID(ctx, threadID)
	att, _ := f.mocks.attachments.GetByID(ctx, "22222222-5555-5555-5555-555555555555")
	stored.Attachments = []model.Attachment{*att}
	f.mocks.threads.threads[threadID] = stored

	threads, err := svc.ListByDefect(ctx, f.vesselUser.UserID, defectID)
	if err != nil {
		t.Fatalf("ListByDefect: %v", err)
	}
	if len(threads) != 1 || len(threads[0].Attachments) != 1 {
		t.Fatalf("threads/attachments not returned: %+v", threads)
	}
	got := threads[0].Attachments[0].BlobPath
	if !strings.HasPrefix(got, "https://") || !strings.Contains(got, "sig=r") {
		t.Fatalf("attachment path not signed: %q", got)
	}
}

func TestCreateAttachmentTooLarge(t *testing.T) {
	f, svc := newThreadFixture(t)
	_ = f

	_, _, err := svc.CreateAttachment(context.Background(), f.vesselUser.UserID, &dto.CreateAttachmentRequest{
		ID:       "33333333-4444-4444-4444-444444444444",
		ThreadID: "any",
		FileName: "huge.bin",
		FileSize: model.MaxAttachmentSize + 1,
		BlobPath: "uploads/huge.bin",
	})
	if !errors.Is(err, ErrAttachmentTooLarge) {
		t.Fatalf("err = %v, want ErrAttachmentTooLarge", err)
	}
}

func TestDefectLinkRouting(t *testing.T) {
	const id = "deadbeef-0000-0000-0000-000000000000"
	cases := []struct {
		role   model.UserRole
		status model.DefectStatus
		want   string
	}{
		{model.RoleVessel, model.StatusOpen, "/vessel/history?highlightDefectId=" + id},
		{model.RoleVessel, model.StatusClosed, "/vessel/closed?highlightDefectId=" + id},
		{model.RoleShore, model.StatusOpen, "/shore/vessels?highlightDefectId=" + id},
		{model.RoleShore, model.StatusClosed, "/shore/history?highlightDefectId=" + id},
		{model.RoleAdmin, model.StatusInProgress, "/shore/vessels?highlightDefectId=" + id},
	}
	for _, tc := range cases {
		if got := DefectLink(tc.role, tc.status, id); got != tc.want {
			t.Errorf("DefectLink(%s, %s) = %q, want %q", tc.role, tc.status, got, tc.want)
		}
	}
}
