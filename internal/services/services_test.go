package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mroshb/chat_app/internal/database"
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/notify"
	"github.com/mroshb/chat_app/pkg/errors"
	gormlogger "gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type testEnv struct {
	store    *Store
	users    *UserService
	requests *RequestService
	friends  *FriendService
	convs    *ConversationService
	groups   *GroupService
	messages *MessageService
	notes    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
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

	store := NewStore(db)
	notes := &recordingNotifier{}
	return &testEnv{
		store:    store,
		users:    NewUserService(store),
		requests: NewRequestService(store, notes),
		friends:  NewFriendService(store),
		convs:    NewConversationService(store),
		groups:   NewGroupService(store),
		messages: NewMessageService(store, notes, 4000),
		notes:    notes,
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()

	ext := "ext_" + name
	user, _, err := e.users.CreateIfAbsent(Profile{
		ExternalID: ext,
		Username:   name,
		Email:      name + "@x.com",
	})
	if err != nil {
		t.Fatalf("CreateIfAbsent(%s) error = %v", name, err)
	}
	return user
}

// befriend sends a request from a to b by email and accepts it as b.
func (e *testEnv) befriend(t *testing.T, a, b *models.User) uint {
	t.Helper()

	req, err := e.requests.Create(a.ExternalID, RequestInput{Email: b.Email})
	if err != nil {
		t.Fatalf("Create(%s -> %s) error = %v", a.Username, b.Username, err)
	}
	convID, err := e.requests.Accept(b.ExternalID, req.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	return convID
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	if err := e.store.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	return n
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if got := errors.CodeOf(err); got != code {
		t.Fatalf("error code = %q (%v), want %q", got, err, code)
	}
}

func memberIDs(t *testing.T, e *testEnv, caller *models.User, convID uint) []uint {
	t.Helper()

	members, err := e.convs.GetMembers(caller.ExternalID, convID)
	if err != nil {
		t.Fatalf("GetMembers() error = %v", err)
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
