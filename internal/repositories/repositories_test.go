package repositories

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mroshb/chat_app/internal/database"
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), gormlogger.Silent)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *UserRepository, externalID, username, email string) *models.User {
	t.Helper()

	user := &models.User{ExternalID: externalID, Username: username, Email: email}
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("CreateUser(%s) error = %v", externalID, err)
	}
	return user
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	alice := createUser(t, repo, "ext_alice", "Alice", "Alice@Example.com")
	createUser(t, repo, "ext_bob", "Bob", "bob@example.com")

	got, err := repo.GetUserByExternalID("ext_alice")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("GetUserByExternalID() = %v, %v; want user %d", got, err, alice.ID)
	}

	got, err = repo.GetUserByEmail("alice@example.COM")
	if err != nil || got.ID != alice.ID {
		t.Errorf("GetUserByEmail() = %v, %v; want user %d", got, err, alice.ID)
	}

	got, err = repo.GetUserByUsername("ALICE")
	if err != nil || got.ID != alice.ID {
		t.Errorf("GetUserByUsername() = %v, %v; want user %d", got, err, alice.ID)
	}

	_, err = repo.GetUserByExternalID("missing")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetUserByExternalID(missing) error = %v, want NOT_FOUND", err)
	}

	users, err := repo.GetUsersByIDs([]uint{alice.ID, 999})
	if err != nil {
		t.Fatalf("GetUsersByIDs() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("GetUsersByIDs() returned %d users, want 1", len(users))
	}
}

func TestFriendRepository_Symmetry(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewFriendRepository(db)

	a := createUser(t, users, "a", "A", "a@x.com")
	b := createUser(t, users, "b", "B", "b@x.com")
	c := createUser(t, users, "c", "C", "c@x.com")

	if err := repo.CreateFriendship(b.ID, a.ID); err != nil {
		t.Fatalf("CreateFriendship() error = %v", err)
	}
	// second create in the other order must not add a row
	if err := repo.CreateFriendship(a.ID, b.ID); err != nil {
		t.Fatalf("CreateFriendship() repeat error = %v", err)
	}

	var rows int64
	db.Model(&models.Friendship{}).Count(&rows)
	if rows != 1 {
		t.Errorf("friendship rows = %d, want 1", rows)
	}

	ab, _ := repo.AreFriends(a.ID, b.ID)
	ba, _ := repo.AreFriends(b.ID, a.ID)
	if !ab || !ba {
		t.Errorf("AreFriends() = (%v, %v), want (true, true)", ab, ba)
	}
	if ac, _ := repo.AreFriends(a.ID, c.ID); ac {
		t.Error("AreFriends(a, c) = true, want false")
	}

	if err := repo.CreateFriendship(c.ID, a.ID); err != nil {
		t.Fatalf("CreateFriendship() error = %v", err)
	}
	friends, err := repo.GetFriends(a.ID)
	if err != nil {
		t.Fatalf("GetFriends() error = %v", err)
	}
	if len(friends) != 2 || friends[0].ID != b.ID || friends[1].ID != c.ID {
		t.Errorf("GetFriends(a) = %v, want [b c]", friends)
	}

	if err := repo.RemoveFriendship(b.ID, a.ID); err != nil {
		t.Fatalf("RemoveFriendship() error = %v", err)
	}
	if ab, _ := repo.AreFriends(a.ID, b.ID); ab {
		t.Error("AreFriends(a, b) after removal = true, want false")
	}
	if err := repo.RemoveFriendship(a.ID, b.ID); err != nil {
		t.Errorf("RemoveFriendship() of missing friendship error = %v, want nil", err)
	}
}

func TestRequestRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewRequestRepository(db)

	a := createUser(t, users, "a", "A", "a@x.com")
	b := createUser(t, users, "b", "B", "b@x.com")

	req, err := repo.CreateRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	found, err := repo.FindPending(a.ID, b.ID)
	if err != nil || found == nil || found.ID != req.ID {
		t.Errorf("FindPending(a, b) = %v, %v; want request %d", found, err, req.ID)
	}
	if found, _ := repo.FindPending(b.ID, a.ID); found != nil {
		t.Errorf("FindPending(b, a) = %v, want nil", found)
	}

	pending, err := repo.GetPendingForReceiver(b.ID)
	if err != nil {
		t.Fatalf("GetPendingForReceiver() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Sender.ID != a.ID {
		t.Errorf("GetPendingForReceiver(b) = %v, want one request from a", pending)
	}

	if count, _ := repo.CountPendingForReceiver(b.ID); count != 1 {
		t.Errorf("CountPendingForReceiver(b) = %d, want 1", count)
	}

	if err := repo.DeleteRequest(req.ID); err != nil {
		t.Fatalf("DeleteRequest() error = %v", err)
	}
	if err := repo.DeleteRequest(req.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("DeleteRequest() twice error = %v, want NOT_FOUND", err)
	}
}

func TestConversationRepository_MembersAndCascade(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	convs := NewConversationRepository(db)
	msgs := NewMessageRepository(db)

	a := createUser(t, users, "a", "A", "a@x.com")
	b := createUser(t, users, "b", "B", "b@x.com")

	key := models.DirectKeyFor(a.ID, b.ID)
	conv := &models.Conversation{DirectKey: &key}
	if err := convs.CreateConversation(conv); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	for _, id := range []uint{a.ID, b.ID} {
		added, err := convs.AddMember(conv.ID, id)
		if err != nil || !added {
			t.Fatalf("AddMember(%d) = %v, %v; want true, nil", id, added, err)
		}
	}
	added, err := convs.AddMember(conv.ID, a.ID)
	if err != nil || added {
		t.Errorf("AddMember() repeat = %v, %v; want false, nil", added, err)
	}
	if count, _ := convs.GetMemberCount(conv.ID); count != 2 {
		t.Errorf("GetMemberCount() = %d, want 2", count)
	}

	direct, err := convs.GetDirectConversation(b.ID, a.ID)
	if err != nil || direct == nil || direct.ID != conv.ID {
		t.Errorf("GetDirectConversation(b, a) = %v, %v; want %d", direct, err, conv.ID)
	}

	msg := &models.Message{ConversationID: conv.ID, SenderID: a.ID, Type: models.MessageTypeText, Content: "hi"}
	if err := msgs.CreateMessage(msg); err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}
	if err := convs.SetLastMessage(conv.ID, msg.ID); err != nil {
		t.Fatalf("SetLastMessage() error = %v", err)
	}
	if err := convs.UpdateLastSeen(conv.ID, b.ID, msg.ID); err != nil {
		t.Fatalf("UpdateLastSeen() error = %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return convs.WithTx(tx).DeleteConversation(conv.ID)
	})
	if err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	var memberRows, messageRows int64
	db.Model(&models.ConversationMember{}).Where("conversation_id = ?", conv.ID).Count(&memberRows)
	db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&messageRows)
	if memberRows != 0 || messageRows != 0 {
		t.Errorf("after DeleteConversation members = %d, messages = %d; want 0, 0", memberRows, messageRows)
	}
	if _, err := convs.GetConversationByID(conv.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetConversationByID() after delete error = %v, want NOT_FOUND", err)
	}
}

func TestConversationRepository_DirectKeyUnique(t *testing.T) {
	db := newTestDB(t)
	convs := NewConversationRepository(db)

	key := models.DirectKeyFor(1, 2)
	if err := convs.CreateConversation(&models.Conversation{DirectKey: &key}); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	dup := key
	if err := convs.CreateConversation(&models.Conversation{DirectKey: &dup}); err == nil {
		t.Error("CreateConversation() with duplicate direct key succeeded, want error")
	}

	creator := uint(1)
	for i := 0; i < 2; i++ {
		group := &models.Conversation{IsGroup: true, Name: "Team", CreatorID: &creator}
		if err := convs.CreateConversation(group); err != nil {
			t.Fatalf("CreateConversation(group %d) error = %v", i, err)
		}
	}
}

func TestMessageRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	for i, content := range []string{"one", "two", "three"} {
		msg := &models.Message{ConversationID: 1, SenderID: 1, Type: models.MessageTypeText, Content: content}
		if err := repo.CreateMessage(msg); err != nil {
			t.Fatalf("CreateMessage(%d) error = %v", i, err)
		}
	}

	if err := repo.CreateMessage(&models.Message{ConversationID: 1, SenderID: 1, Type: "video", Content: "x"}); err == nil {
		t.Error("CreateMessage() with unknown type succeeded, want error")
	}

	latest, err := repo.GetLatestMessage(1)
	if err != nil || latest == nil || latest.Content != "three" {
		t.Fatalf("GetLatestMessage() = %v, %v; want three", latest, err)
	}
	if none, _ := repo.GetLatestMessage(2); none != nil {
		t.Errorf("GetLatestMessage(empty) = %v, want nil", none)
	}

	page, err := repo.GetConversationMessages(1, 2)
	if err != nil {
		t.Fatalf("GetConversationMessages() error = %v", err)
	}
	if len(page) != 2 || page[0].Content != "three" || page[1].Content != "two" {
		t.Errorf("GetConversationMessages(limit 2) = %v, want [three two]", page)
	}

	if err := repo.SoftDelete(latest.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	deleted, _ := repo.GetMessageByID(latest.ID)
	if !deleted.IsDeleted {
		t.Error("IsDeleted = false after SoftDelete")
	}
	if count, _ := repo.CountConversationMessages(1); count != 3 {
		t.Errorf("CountConversationMessages() = %d, want 3", count)
	}
}
