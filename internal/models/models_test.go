package models

import (
	"testing"
	"time"

	"github.com/mroshb/chat_app/pkg/utils"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "No badges",
			user: User{Username: "Alice"},
			want: "Alice",
		},
		{
			name: "Verified",
			user: User{Username: "Alice", Verified: true},
			want: "Alice" + utils.BadgeVerified,
		},
		{
			name: "Verified and premium",
			user: User{Username: "Alice", Verified: true, Premium: true},
			want: "Alice" + utils.BadgeVerified + utils.BadgePremium,
		},
		{
			name: "Premium only",
			user: User{Username: "Bob", Premium: true},
			want: "Bob" + utils.BadgePremium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUser_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    User{ExternalID: "user_1", Username: "Alice", Email: " Alice@X.com "},
			wantErr: false,
		},
		{
			name:    "Missing external id",
			user:    User{Username: "Alice"},
			wantErr: true,
		},
		{
			name:    "Blank username",
			user:    User{ExternalID: "user_1", Username: "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			err := user.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if user.UsernameLower != "alice" {
					t.Errorf("UsernameLower = %q, want %q", user.UsernameLower, "alice")
				}
				if user.Email != "alice@x.com" {
					t.Errorf("Email = %q, want %q", user.Email, "alice@x.com")
				}
			}
		})
	}
}

func TestFriendship_Canonical(t *testing.T) {
	f1 := NewFriendship(9, 3)
	f2 := NewFriendship(3, 9)

	if f1.UserLowID != 3 || f1.UserHighID != 9 {
		t.Errorf("NewFriendship(9, 3) = (%d, %d), want (3, 9)", f1.UserLowID, f1.UserHighID)
	}
	if *f1 != *f2 {
		t.Errorf("NewFriendship is order dependent: %+v vs %+v", f1, f2)
	}
}

func TestDirectKeyFor(t *testing.T) {
	if DirectKeyFor(5, 2) != DirectKeyFor(2, 5) {
		t.Errorf("DirectKeyFor is order dependent")
	}
	if got := DirectKeyFor(5, 2); got != "2:5" {
		t.Errorf("DirectKeyFor(5, 2) = %q, want %q", got, "2:5")
	}
}

func TestConversation_BeforeSave(t *testing.T) {
	creator := uint(1)
	key := DirectKeyFor(1, 2)

	tests := []struct {
		name    string
		conv    Conversation
		wantErr bool
	}{
		{name: "Direct", conv: Conversation{DirectKey: &key}, wantErr: false},
		{name: "Group", conv: Conversation{IsGroup: true, Name: "Team", CreatorID: &creator}, wantErr: false},
		{name: "Group without creator", conv: Conversation{IsGroup: true, Name: "Team"}, wantErr: true},
		{name: "Group without name", conv: Conversation{IsGroup: true, CreatorID: &creator}, wantErr: true},
		{name: "Direct with creator", conv: Conversation{CreatorID: &creator}, wantErr: true},
		{name: "Direct with name", conv: Conversation{Name: "Team"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conv.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConversation_IsCreatedBy(t *testing.T) {
	creator := uint(4)
	group := Conversation{IsGroup: true, Name: "Team", CreatorID: &creator}
	direct := Conversation{}

	if !group.IsCreatedBy(4) {
		t.Error("IsCreatedBy(creator) = false, want true")
	}
	if group.IsCreatedBy(5) {
		t.Error("IsCreatedBy(other) = true, want false")
	}
	if direct.IsCreatedBy(4) {
		t.Error("IsCreatedBy on direct conversation = true, want false")
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{name: "Text", msg: Message{Type: MessageTypeText, Content: "hi"}, want: "hi"},
		{name: "Image", msg: Message{Type: MessageTypeImage, Content: "storage-1"}, want: PreviewNonText},
		{name: "Document", msg: Message{Type: MessageTypeDocument, Content: `{"storageId":"s"}`}, want: PreviewNonText},
		{name: "Deleted", msg: Message{Type: MessageTypeText, Content: "secret", IsDeleted: true}, want: PreviewDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage_Timestamp(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	msg := Message{CreatedAt: at}
	if got := msg.Timestamp(); got != at.UnixMilli() {
		t.Errorf("Timestamp() = %d, want %d", got, at.UnixMilli())
	}
}

func TestParseDocumentContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "Valid", raw: `{"storageId":"kg2","fileName":"a.pdf","fileType":"application/pdf"}`, wantErr: false},
		{name: "Not JSON", raw: "kg2", wantErr: true},
		{name: "Missing file name", raw: `{"storageId":"kg2","fileType":"application/pdf"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocumentContent(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDocumentContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
