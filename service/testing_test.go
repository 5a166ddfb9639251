package service

import (
	"MoeMemo/dao"
	"MoeMemo/models"
	"MoeMemo/pkg/snowflake"
	"MoeMemo/types"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Users{},
		&models.Note{},
		&models.Tag{},
		&models.NoteTag{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Page{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	notes    *NoteService
	comments *CommentsService
	tags     *TagService
	pages    *PageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	noteDAO := dao.NewNoteDAO(db)
	noteTagDAO := dao.NewNoteTag(db)
	tagDAO := dao.NewTag(db)
	usersDAO := dao.NewUsers(db)
	commentDAO := dao.NewComment(db)
	commentLikeDAO := dao.NewCommentLike(db)
	pageDAO := dao.NewPageDAO(db)

	return &testEnv{
		db: db,
		notes: &NoteService{
			NoteDAO:    noteDAO,
			NoteTagDAO: noteTagDAO,
			TagDAO:     tagDAO,
			UsersDAO:   usersDAO,
			CommentDAO: commentDAO,
		},
		comments: &CommentsService{
			CommentDAO:     commentDAO,
			CommentLikeDAO: commentLikeDAO,
			NoteDAO:        noteDAO,
			UsersDAO:       usersDAO,
		},
		tags: &TagService{
			TagDAO:     tagDAO,
			NoteTagDAO: noteTagDAO,
		},
		pages: &PageService{
			PageDAO: pageDAO,
		},
	}
}

func (e *testEnv) seedUser(t *testing.T, username, role string) *models.Users {
	t.Helper()
	user := &models.Users{
		ID:       snowflake.GenID(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Status:   types.UserStatusActive,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func identityOf(user *models.Users) *types.Identity {
	return &types.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
	}
}

func (e *testEnv) seedNote(t *testing.T, userID uint64, title, status string) *models.Note {
	t.Helper()
	note := &models.Note{
		ID:     snowflake.GenID(),
		UserID: userID,
		Title:  title,
		Status: status,
	}
	if err := e.db.Create(note).Error; err != nil {
		t.Fatalf("seed note %s: %v", title, err)
	}
	return note
}

func (e *testEnv) seedComment(t *testing.T, articleID, userID uint64, parentID *uint64, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		ID:        snowflake.GenID(),
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
	}
	if err := e.db.Create(comment).Error; err != nil {
		t.Fatalf("seed comment %s: %v", content, err)
	}
	return comment
}

func (e *testEnv) seedTag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{ID: snowflake.GenID(), Name: name}
	if err := e.db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", name, err)
	}
	return tag
}
