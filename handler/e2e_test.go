package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MoeMemo/config"
	"MoeMemo/dao"
	"MoeMemo/handler"
	"MoeMemo/models"
	"MoeMemo/pkg/jwt"
	"MoeMemo/pkg/server"
	"MoeMemo/pkg/snowflake"
	"MoeMemo/service"
	"MoeMemo/types"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "e2e-secret"

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type e2eEnv struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newE2E(t *testing.T) *e2eEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Users{}, &models.Note{}, &models.Tag{}, &models.NoteTag{},
		&models.Comment{}, &models.CommentLike{}, &models.Page{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		App:    &config.App{Env: "test", Debug: true, Name: "MoeMemo"},
		Jwt:    &config.Jwt{Secret: testSecret, ExpiresTime: 3600},
		Server: &config.Server{Http: 0},
	}

	noteDAO := dao.NewNoteDAO(db)
	noteTagDAO := dao.NewNoteTag(db)
	tagDAO := dao.NewTag(db)
	usersDAO := dao.NewUsers(db)
	commentDAO := dao.NewComment(db)
	commentLikeDAO := dao.NewCommentLike(db)
	pageDAO := dao.NewPageDAO(db)

	noteService := &service.NoteService{
		NoteDAO: noteDAO, NoteTagDAO: noteTagDAO, TagDAO: tagDAO,
		UsersDAO: usersDAO, CommentDAO: commentDAO,
	}
	commentsService := &service.CommentsService{
		CommentDAO: commentDAO, CommentLikeDAO: commentLikeDAO,
		NoteDAO: noteDAO, UsersDAO: usersDAO,
	}
	tagService := &service.TagService{TagDAO: tagDAO, NoteTagDAO: noteTagDAO}
	pageService := &service.PageService{PageDAO: pageDAO}

	engine := server.NewGinEngine(&server.Handlers{
		Note:            &handler.Note{Config: cfg, NoteService: noteService, UsersDAO: usersDAO},
		CommentsHandler: &handler.CommentsHandler{Config: cfg, CommentsService: commentsService, UsersDAO: usersDAO},
		TagHandler:      &handler.TagHandler{Config: cfg, TagService: tagService, NoteService: noteService, UsersDAO: usersDAO},
		PageHandler:     &handler.PageHandler{Config: cfg, PageService: pageService, UsersDAO: usersDAO},
	})
	return &e2eEnv{db: db, engine: engine}
}

func (e *e2eEnv) seedUser(t *testing.T, username, role string) (*models.Users, string) {
	t.Helper()
	user := &models.Users{
		ID:       snowflake.GenID(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Status:   types.UserStatusActive,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := jwt.GenerateToken([]byte(testSecret), user.ID, user.Role, "access", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return user, token
}

func (e *e2eEnv) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, *apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)

	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad envelope %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, &env
}

func decodeData(t *testing.T, env *apiEnvelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

func TestBlogLifecycle(t *testing.T) {
	e := newE2E(t)
	author, authorToken := e.seedUser(t, "author", types.RoleSubscriber)
	_, readerToken := e.seedUser(t, "reader", types.RoleSubscriber)

	// 建标签
	rec, env := e.request(t, http.MethodPost, "/api/tags", authorToken, types.TagRequest{Name: "golang"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create tag: %d %s", rec.Code, rec.Body.String())
	}
	var tag models.Tag
	decodeData(t, env, &tag)

	// 草稿笔记挂标签
	rec, env = e.request(t, http.MethodPost, "/api/notes", authorToken, types.CreateNoteRequest{
		Title:  "Go 入门",
		TagIDs: []uint64{tag.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create note: %d %s", rec.Code, rec.Body.String())
	}
	var note types.NoteWithTags
	decodeData(t, env, &note)
	if len(note.Tags) != 1 || note.Tags[0].Name != "golang" {
		t.Fatalf("note tags = %+v", note.Tags)
	}

	notePath := fmt.Sprintf("/api/notes/%d", note.ID)

	// 草稿对外 404，对作者可见
	rec, _ = e.request(t, http.MethodGet, notePath, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("draft publicly visible: %d", rec.Code)
	}
	rec, _ = e.request(t, http.MethodGet, notePath, authorToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft hidden from author: %d", rec.Code)
	}

	// 发布
	rec, _ = e.request(t, http.MethodPut, notePath, authorToken, types.CreateNoteRequest{
		Title:  "Go 入门",
		TagIDs: []uint64{tag.ID},
		Status: types.NoteStatusPublished,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: %d %s", rec.Code, rec.Body.String())
	}
	rec, _ = e.request(t, http.MethodGet, notePath, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("published note not public: %d", rec.Code)
	}

	// 未登录不能评论
	rec, _ = e.request(t, http.MethodPost, "/api/comments", "", types.CreateCommentRequest{
		ArticleID: note.ID, Content: "不错",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous comment: %d", rec.Code)
	}

	// 评论 + 回复
	rec, env = e.request(t, http.MethodPost, "/api/comments", readerToken, types.CreateCommentRequest{
		ArticleID: note.ID, Content: "写得不错",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("comment: %d %s", rec.Code, rec.Body.String())
	}
	var root types.CommentNode
	decodeData(t, env, &root)

	rec, env = e.request(t, http.MethodPost, "/api/comments", authorToken, types.CreateCommentRequest{
		ArticleID: note.ID, Content: "谢谢", ParentID: &root.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reply: %d %s", rec.Code, rec.Body.String())
	}
	var reply types.CommentNode
	decodeData(t, env, &reply)
	if reply.ParentUserName != "reader" {
		t.Fatalf("reply parent_user_name = %q", reply.ParentUserName)
	}

	// 点赞
	rec, env = e.request(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/like", root.ID), authorToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("like: %d %s", rec.Code, rec.Body.String())
	}
	var toggled types.LikeToggleResponse
	decodeData(t, env, &toggled)
	if !toggled.IsLiked || toggled.Likes != 1 {
		t.Fatalf("toggle = %+v", toggled)
	}

	// 评论树：作者视角能看到点赞状态与嵌套
	rec, env = e.request(t, http.MethodGet, fmt.Sprintf("/api/comments/%d", note.ID), authorToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree: %d %s", rec.Code, rec.Body.String())
	}
	var tree []*types.CommentNode
	decodeData(t, env, &tree)
	if len(tree) != 1 {
		t.Fatalf("tree roots = %d", len(tree))
	}
	if tree[0].ID != root.ID || !tree[0].IsLiked || tree[0].Likes != 1 {
		t.Fatalf("root node = %+v", tree[0])
	}
	if len(tree[0].Replies) != 1 || tree[0].Replies[0].ID != reply.ID {
		t.Fatalf("reply not nested: %+v", tree[0].Replies)
	}
	if tree[0].UserName != "reader" || tree[0].Replies[0].UserName != author.Username {
		t.Fatal("comment authors wrong")
	}

	// 非作者删除他人评论被拒
	rec, _ = e.request(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", root.ID), authorToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: %d", rec.Code)
	}
	// 作者删除自己的根评论级联移除回复
	rec, _ = e.request(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", root.ID), readerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	rec, env = e.request(t, http.MethodGet, fmt.Sprintf("/api/comments/%d", note.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree after delete: %d", rec.Code)
	}
	tree = nil
	decodeData(t, env, &tree)
	if len(tree) != 0 {
		t.Fatalf("tree not empty after cascade delete: %d roots", len(tree))
	}

	// 浏览数 + 热门标签 + 统计
	rec, _ = e.request(t, http.MethodPost, notePath+"/view", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("view: %d", rec.Code)
	}

	rec, env = e.request(t, http.MethodGet, "/api/tags/hot", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hot tags: %d", rec.Code)
	}
	var hot []*types.TagWithCount
	decodeData(t, env, &hot)
	if len(hot) != 1 || hot[0].Name != "golang" {
		t.Fatalf("hot = %+v", hot)
	}

	rec, env = e.request(t, http.MethodGet, "/api/notes/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	var stats types.BlogStats
	decodeData(t, env, &stats)
	if stats.Articles != 1 || stats.Users != 2 || stats.Views != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestAuthRejections(t *testing.T) {
	e := newE2E(t)
	user, token := e.seedUser(t, "banned", types.RoleSubscriber)

	rec, _ := e.request(t, http.MethodGet, "/api/notes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Token abc")
	rec2 := httptest.NewRecorder()
	e.engine.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: %d", rec2.Code)
	}

	// 禁用账号即使持有合法 token 也拒绝
	if err := e.db.Model(&models.Users{}).Where("id = ?", user.ID).
		Update("status", types.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user: %v", err)
	}
	rec3, _ := e.request(t, http.MethodGet, "/api/notes", token, nil)
	if rec3.Code != http.StatusUnauthorized {
		t.Fatalf("disabled account accepted: %d", rec3.Code)
	}
}
