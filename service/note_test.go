package service

import (
	"MoeMemo/models"
	"MoeMemo/types"
	"context"
	"testing"
)

func TestGetNoteVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	stranger := env.seedUser(t, "stranger", types.RoleSubscriber)
	admin := env.seedUser(t, "admin", types.RoleAdmin)
	draft := env.seedNote(t, owner.ID, "draft", types.NoteStatusDraft)
	published := env.seedNote(t, owner.ID, "published", types.NoteStatusPublished)
	ctx := context.Background()

	cases := []struct {
		name   string
		noteID uint64
		viewer *types.Identity
		ok     bool
	}{
		{"draft anonymous", draft.ID, nil, false},
		{"draft stranger", draft.ID, identityOf(stranger), false},
		{"draft owner", draft.ID, identityOf(owner), true},
		{"draft admin", draft.ID, identityOf(admin), true},
		{"published anonymous", published.ID, nil, true},
		{"published stranger", published.ID, identityOf(stranger), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			note, err := env.notes.Get(ctx, tc.noteID, tc.viewer)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected visible, got %v", err)
				}
				if note.ID != tc.noteID {
					t.Fatal("wrong note returned")
				}
				return
			}
			if got := bizCode(t, err); got != 404 {
				t.Fatalf("code = %d, want 404", got)
			}
		})
	}
}

func TestListManagementScope(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	other := env.seedUser(t, "other", types.RoleSubscriber)
	admin := env.seedUser(t, "admin", types.RoleAdmin)
	env.seedNote(t, owner.ID, "a", types.NoteStatusDraft)
	env.seedNote(t, owner.ID, "b", types.NoteStatusPublished)
	env.seedNote(t, other.ID, "c", types.NoteStatusPublished)
	ctx := context.Background()

	mine, err := env.notes.List(ctx, identityOf(owner))
	if err != nil {
		t.Fatalf("List owner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("owner sees %d notes, want 2", len(mine))
	}

	all, err := env.notes.List(ctx, identityOf(admin))
	if err != nil {
		t.Fatalf("List admin: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin sees %d notes, want 3", len(all))
	}

	bystander := env.seedUser(t, "bystander", types.RoleSubscriber)
	none, err := env.notes.List(ctx, identityOf(bystander))
	if err != nil {
		t.Fatalf("List bystander: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("bystander sees %d notes, want 0", len(none))
	}
}

func TestCreateNoteWithTags(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	golang := env.seedTag(t, "golang")
	web := env.seedTag(t, "web")
	ctx := context.Background()

	// 无效标签直接拒绝
	_, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "bad",
		TagIDs: []uint64{golang.ID, 424242},
	})
	if got := bizCode(t, err); got != 400 {
		t.Fatalf("invalid tag code = %d, want 400", got)
	}

	// 重复的标签 ID 只落一条关联
	note, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "good",
		TagIDs: []uint64{golang.ID, web.ID, golang.ID},
		Status: types.NoteStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(note.Tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(note.Tags))
	}
	if note.Author != owner.Username {
		t.Fatalf("author = %q, want %q", note.Author, owner.Username)
	}

	var links int64
	env.db.Model(&models.NoteTag{}).Where("note_id = ?", note.ID).Count(&links)
	if links != 2 {
		t.Fatalf("got %d note_tag rows, want 2", links)
	}

	// 缺标题
	if _, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{}); bizCode(t, err) != 400 {
		t.Fatal("missing title should be 400")
	}
	// 非法状态
	if _, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{Title: "x", Status: "archived"}); bizCode(t, err) != 400 {
		t.Fatal("invalid status should be 400")
	}
}

func TestUpdateNoteReplacesTags(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	stranger := env.seedUser(t, "stranger", types.RoleSubscriber)
	golang := env.seedTag(t, "golang")
	web := env.seedTag(t, "web")
	db := env.seedTag(t, "database")
	ctx := context.Background()

	note, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "post",
		TagIDs: []uint64{golang.ID, web.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = env.notes.Update(ctx, identityOf(stranger), note.ID, &types.CreateNoteRequest{Title: "hacked"})
	if got := bizCode(t, err); got != 403 {
		t.Fatalf("stranger update code = %d, want 403", got)
	}

	err = env.notes.Update(ctx, identityOf(owner), note.ID, &types.CreateNoteRequest{
		Title:  "post v2",
		TagIDs: []uint64{db.ID},
		Status: types.NoteStatusPublished,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := env.notes.Get(ctx, note.ID, identityOf(owner))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if updated.Title != "post v2" || updated.Status != types.NoteStatusPublished {
		t.Fatalf("fields not updated: %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != db.ID {
		t.Fatalf("tags not replaced: %+v", updated.Tags)
	}
}

func TestDeleteNoteRemovesTagLinks(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	golang := env.seedTag(t, "golang")
	ctx := context.Background()

	note, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "doomed",
		TagIDs: []uint64{golang.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := env.notes.Delete(ctx, identityOf(owner), note.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var links int64
	env.db.Model(&models.NoteTag{}).Where("note_id = ?", note.ID).Count(&links)
	if links != 0 {
		t.Fatalf("dangling note_tag rows: %d", links)
	}
	if _, err := env.notes.Get(ctx, note.ID, identityOf(owner)); bizCode(t, err) != 404 {
		t.Fatal("deleted note should be 404")
	}
	// 标签本身保留
	if _, err := env.tags.Get(ctx, golang.ID); err != nil {
		t.Fatalf("tag should survive note deletion: %v", err)
	}
}

func TestSlidesCapAndOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		note := env.seedNote(t, owner.ID, "slide", types.NoteStatusPublished)
		env.db.Model(&models.Note{}).Where("id = ?", note.ID).
			Updates(map[string]any{"is_slide": true, "slide_order": 12 - i})
	}
	// 草稿轮播不出现在公开列表
	draft := env.seedNote(t, owner.ID, "hidden slide", types.NoteStatusDraft)
	env.db.Model(&models.Note{}).Where("id = ?", draft.ID).Update("is_slide", true)

	slides, err := env.notes.Slides(ctx)
	if err != nil {
		t.Fatalf("Slides: %v", err)
	}
	if len(slides) != types.SlideLimit {
		t.Fatalf("got %d slides, want %d", len(slides), types.SlideLimit)
	}
	for i := 1; i < len(slides); i++ {
		if slides[i-1].SlideOrder > slides[i].SlideOrder {
			t.Fatal("slides not ordered by slide_order ASC")
		}
	}

	all, err := env.notes.SlidesAll(ctx, identityOf(owner))
	if err != nil {
		t.Fatalf("SlidesAll: %v", err)
	}
	if len(all) != 13 {
		t.Fatalf("management slides = %d, want 13", len(all))
	}
}

func TestRecentAndPopularDefaults(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		note := env.seedNote(t, owner.ID, "post", types.NoteStatusPublished)
		env.db.Model(&models.Note{}).Where("id = ?", note.ID).Update("view_count", i)
	}

	recent, err := env.notes.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != types.DefaultRecentLimit {
		t.Fatalf("recent default = %d, want %d", len(recent), types.DefaultRecentLimit)
	}

	popular, err := env.notes.Popular(ctx, 0)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if len(popular) != types.DefaultPopularLimit {
		t.Fatalf("popular default = %d, want %d", len(popular), types.DefaultPopularLimit)
	}
	for i := 1; i < len(popular); i++ {
		if popular[i-1].ViewCount < popular[i].ViewCount {
			t.Fatal("popular not ordered by view_count DESC")
		}
	}

	three, err := env.notes.Popular(ctx, 3)
	if err != nil {
		t.Fatalf("Popular(3): %v", err)
	}
	if len(three) != 3 {
		t.Fatalf("popular limit 3 = %d", len(three))
	}
}

func TestSearchPublishedOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	golang := env.seedTag(t, "golang")
	ctx := context.Background()

	hit, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "Go 并发模型",
		TagIDs: []uint64{golang.ID},
		Status: types.NoteStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.notes.Create(ctx, identityOf(owner), &types.CreateNoteRequest{
		Title:  "Go 草稿",
		Status: types.NoteStatusDraft,
	}); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	byKeyword, err := env.notes.Search(ctx, "并发", "")
	if err != nil {
		t.Fatalf("Search keyword: %v", err)
	}
	if len(byKeyword) != 1 || byKeyword[0].ID != hit.ID {
		t.Fatalf("keyword search = %d hits", len(byKeyword))
	}

	byTag, err := env.notes.Search(ctx, "", "golang")
	if err != nil {
		t.Fatalf("Search tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != hit.ID {
		t.Fatalf("tag search = %d hits", len(byTag))
	}

	draftHunt, err := env.notes.Search(ctx, "草稿", "")
	if err != nil {
		t.Fatalf("Search draft: %v", err)
	}
	if len(draftHunt) != 0 {
		t.Fatal("draft leaked into search results")
	}
}

func TestIncrementView(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	note := env.seedNote(t, owner.ID, "post", types.NoteStatusPublished)
	ctx := context.Background()

	if err := env.notes.IncrementView(ctx, note.ID); err != nil {
		t.Fatalf("IncrementView: %v", err)
	}
	if err := env.notes.IncrementView(ctx, note.ID); err != nil {
		t.Fatalf("IncrementView again: %v", err)
	}

	got, err := env.notes.Get(ctx, note.ID, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ViewCount != 2 {
		t.Fatalf("view_count = %d, want 2", got.ViewCount)
	}

	if err := env.notes.IncrementView(ctx, 999999); bizCode(t, err) != 404 {
		t.Fatal("missing note should be 404")
	}
}

func TestStatsWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	env.seedTag(t, "golang")
	published := env.seedNote(t, owner.ID, "a", types.NoteStatusPublished)
	env.seedNote(t, owner.ID, "b", types.NoteStatusDraft)
	env.seedComment(t, published.ID, owner.ID, nil, "hi")
	env.db.Model(&models.Note{}).Where("id = ?", published.ID).Update("view_count", 7)
	ctx := context.Background()

	stats, err := env.notes.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Articles != 1 {
		t.Fatalf("articles = %d, want 1 (drafts excluded)", stats.Articles)
	}
	if stats.Users != 1 || stats.Tags != 1 || stats.Comments != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Views != 7 {
		t.Fatalf("views = %d, want 7", stats.Views)
	}
}

func TestNicknameFallback(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", types.RoleSubscriber)
	env.db.Model(&models.Users{}).Where("id = ?", owner.ID).Update("nickname", "小鱼")
	note := env.seedNote(t, owner.ID, "post", types.NoteStatusPublished)
	ctx := context.Background()

	got, err := env.notes.Get(ctx, note.ID, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Author != "小鱼" {
		t.Fatalf("author = %q, want nickname", got.Author)
	}
	if got.Username != owner.Username {
		t.Fatalf("username = %q", got.Username)
	}
}
