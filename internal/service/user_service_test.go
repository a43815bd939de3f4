package service

import (
	"testing"

	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserValidation(t *testing.T) {
	_, userSvc, _ := setupTestEnv(t)

	_, err := userSvc.CreateUser("   ", "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteUserNotFound(t *testing.T) {
	_, userSvc, _ := setupTestEnv(t)

	err := userSvc.DeleteUser(9999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// 删除用户后，任何表中都不再有以任何角色引用该用户的行，
// 且被删消息的派生数据（历史、通知）一并消失
func TestDeleteUserCascade(t *testing.T) {
	orm, userSvc, messageSvc := setupTestEnv(t)
	alice := mustCreateUser(t, userSvc, "alice")
	bob := mustCreateUser(t, userSvc, "bob")
	carol := mustCreateUser(t, userSvc, "carol")

	// alice→bob，编辑一次：历史编辑者为alice
	m1, err := messageSvc.CreateMessage(alice.ID, bob.ID, "hi", nil)
	require.NoError(t, err)
	_, err = messageSvc.UpdateMessageContent(m1.ID, "hello", alice.ID)
	require.NoError(t, err)

	// carol→alice，编辑一次：历史编辑者为carol，消息因接收者是alice被删，
	// 其历史必须随消息消失，尽管编辑者carol仍然存在
	m2, err := messageSvc.CreateMessage(carol.ID, alice.ID, "ping", nil)
	require.NoError(t, err)
	_, err = messageSvc.UpdateMessageContent(m2.ID, "ping!", carol.ID)
	require.NoError(t, err)

	// bob→carol 与alice无关，必须完整保留
	m3, err := messageSvc.CreateMessage(bob.ID, carol.ID, "unrelated", nil)
	require.NoError(t, err)

	require.NoError(t, userSvc.DeleteUser(alice.ID))

	// 用户行已删除
	_, err = userSvc.GetUser(alice.ID)
	assert.True(t, apperr.IsNotFound(err))

	// alice作为发送者或接收者的消息全部消失
	assert.EqualValues(t, 0, countRows(t, orm, &model.Message{}, "sender_id = ? OR receiver_id = ?", alice.ID, alice.ID))

	// 没有历史行以任何方式关联alice：编辑者是alice的、挂在被删消息上的
	assert.EqualValues(t, 0, countRows(t, orm, &model.MessageHistory{}, "edited_by_id = ?", alice.ID))
	assert.EqualValues(t, 0, countRows(t, orm, &model.MessageHistory{}, "message_id IN ?", []uint{m1.ID, m2.ID}))

	// 没有通知行以任何角色引用alice或被删消息
	assert.EqualValues(t, 0, countRows(t, orm, &model.Notification{}, "recipient_id = ? OR sender_id = ?", alice.ID, alice.ID))
	assert.EqualValues(t, 0, countRows(t, orm, &model.Notification{}, "message_id IN ?", []uint{m1.ID, m2.ID}))

	// 与alice无关的数据完整保留
	assert.EqualValues(t, 1, countRows(t, orm, &model.Message{}, "id = ?", m3.ID))
	assert.EqualValues(t, 1, countRows(t, orm, &model.Notification{}, "message_id = ?", m3.ID))
	_, err = userSvc.GetUser(bob.ID)
	assert.NoError(t, err)
	_, err = userSvc.GetUser(carol.ID)
	assert.NoError(t, err)
}

// 完整生命周期串联：创建→无变化编辑→有效编辑→删除发送者
func TestMessageLifecycleEndToEnd(t *testing.T) {
	orm, userSvc, messageSvc := setupTestEnv(t)
	alice := mustCreateUser(t, userSvc, "alice")
	bob := mustCreateUser(t, userSvc, "bob")

	m1, err := messageSvc.CreateMessage(alice.ID, bob.ID, "hi", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, countRows(t, orm, &model.MessageHistory{}, "message_id = ?", m1.ID))
	assert.EqualValues(t, 1, countRows(t, orm, &model.Notification{}, "recipient_id = ?", bob.ID))

	_, err = messageSvc.UpdateMessageContent(m1.ID, "hi", alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, countRows(t, orm, &model.MessageHistory{}, "message_id = ?", m1.ID))

	_, err = messageSvc.UpdateMessageContent(m1.ID, "hello", alice.ID)
	require.NoError(t, err)
	histories, err := messageSvc.ListHistory(m1.ID)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	assert.Equal(t, "hi", histories[0].Content)

	require.NoError(t, userSvc.DeleteUser(alice.ID))
	assert.EqualValues(t, 0, countRows(t, orm, &model.Message{}, "id = ?", m1.ID))
	assert.EqualValues(t, 0, countRows(t, orm, &model.MessageHistory{}, "message_id = ?", m1.ID))
	assert.EqualValues(t, 0, countRows(t, orm, &model.Notification{}, "message_id = ?", m1.ID))
}
