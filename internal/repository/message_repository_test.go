package repository

import (
	"testing"
	"time"

	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	// 内存库随连接存在，连接池必须固定为单连接
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, orm.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.MessageHistory{},
		&model.Notification{},
	))
	return orm
}

func TestMessageRepositoryGetByID(t *testing.T) {
	orm := newTestDB(t)
	repo := NewMessageRepository(orm)

	receiver := uint(2)
	msg := &model.Message{SenderID: 1, ReceiverID: &receiver, Content: "hi"}
	require.NoError(t, repo.Create(msg))

	got, err := repo.GetByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Content)

	_, err = repo.GetByID(9999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// 未读查询按创建时间倒序，只返回指定接收者的未读消息
func TestMessageRepositoryGetUnread(t *testing.T) {
	orm := newTestDB(t)
	repo := NewMessageRepository(orm)

	bob := uint(2)
	carol := uint(3)
	base := time.Now().Add(-3 * time.Hour)

	// 乱序插入，验证排序由查询保证
	oldest := &model.Message{SenderID: 1, ReceiverID: &bob, Content: "oldest", CreatedAt: base}
	newest := &model.Message{SenderID: 1, ReceiverID: &bob, Content: "newest", CreatedAt: base.Add(2 * time.Hour)}
	middle := &model.Message{SenderID: 1, ReceiverID: &bob, Content: "middle", CreatedAt: base.Add(time.Hour)}
	read := &model.Message{SenderID: 1, ReceiverID: &bob, Content: "read", IsRead: true, CreatedAt: base.Add(3 * time.Hour)}
	other := &model.Message{SenderID: 1, ReceiverID: &carol, Content: "other", CreatedAt: base}
	for _, m := range []*model.Message{oldest, newest, middle, read, other} {
		require.NoError(t, repo.Create(m))
	}

	unread, err := repo.GetUnread(bob)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, "newest", unread[0].Content)
	assert.Equal(t, "middle", unread[1].Content)
	assert.Equal(t, "oldest", unread[2].Content)
}

// 回复查询按创建时间正序
func TestMessageRepositoryGetReplies(t *testing.T) {
	orm := newTestDB(t)
	repo := NewMessageRepository(orm)

	receiver := uint(2)
	root := &model.Message{SenderID: 1, ReceiverID: &receiver, Content: "root"}
	require.NoError(t, repo.Create(root))

	base := time.Now().Add(-time.Hour)
	second := &model.Message{SenderID: 2, Content: "second", ParentID: &root.ID, CreatedAt: base.Add(time.Minute)}
	first := &model.Message{SenderID: 2, Content: "first", ParentID: &root.ID, CreatedAt: base}
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(first))

	replies, err := repo.GetReplies(root.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "first", replies[0].Content)
	assert.Equal(t, "second", replies[1].Content)
}

func TestMessageRepositoryIDsByUser(t *testing.T) {
	orm := newTestDB(t)
	repo := NewMessageRepository(orm)

	alice := uint(1)
	bob := uint(2)
	carol := uint(3)

	sent := &model.Message{SenderID: alice, ReceiverID: &bob, Content: "sent"}
	received := &model.Message{SenderID: bob, ReceiverID: &alice, Content: "received"}
	unrelated := &model.Message{SenderID: bob, ReceiverID: &carol, Content: "unrelated"}
	for _, m := range []*model.Message{sent, received, unrelated} {
		require.NoError(t, repo.Create(m))
	}

	ids, err := repo.IDsByUser(alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{sent.ID, received.ID}, ids)
}

func TestHistoryRepositoryOrdering(t *testing.T) {
	orm := newTestDB(t)
	repo := NewHistoryRepository(orm)

	base := time.Now().Add(-time.Hour)
	// 乱序插入两条快照
	require.NoError(t, orm.Create(&model.MessageHistory{
		MessageID: 1, Content: "v2", EditedByID: 1, EditedAt: base.Add(time.Minute),
	}).Error)
	require.NoError(t, orm.Create(&model.MessageHistory{
		MessageID: 1, Content: "v1", EditedByID: 1, EditedAt: base,
	}).Error)

	histories, err := repo.GetByMessage(1)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, "v1", histories[0].Content)
	assert.Equal(t, "v2", histories[1].Content)

	count, err := repo.CountByMessage(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestNotificationRepositoryDeleteByMessageIDs(t *testing.T) {
	orm := newTestDB(t)
	repo := NewNotificationRepository(orm)

	m1, m2 := uint(1), uint(2)
	require.NoError(t, repo.Create(&model.Notification{RecipientID: 2, MessageID: &m1, Type: model.NotificationTypeMessage}))
	require.NoError(t, repo.Create(&model.Notification{RecipientID: 2, MessageID: &m2, Type: model.NotificationTypeMessage}))
	require.NoError(t, repo.Create(&model.Notification{RecipientID: 2, Type: model.NotificationTypeSystem}))

	// 空ID列表是空操作
	require.NoError(t, repo.DeleteByMessageIDs(nil))

	require.NoError(t, repo.DeleteByMessageIDs([]uint{m1, m2}))

	remaining, err := repo.GetByRecipient(2, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, model.NotificationTypeSystem, remaining[0].Type)
}
