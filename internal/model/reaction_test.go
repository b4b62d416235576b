package model

import "testing"

func TestParseReaction(t *testing.T) {
	tests := []struct {
		name  string
		emoji string
		want  Reaction
	}{
		{name: "承認", emoji: "✅", want: ReactionApprove},
		{name: "却下", emoji: "❌", want: ReactionReject},
		{name: "詳細", emoji: "ℹ️", want: ReactionInfo},
		{name: "詳細(異体字セレクタなし)", emoji: "ℹ", want: ReactionInfo},
		{name: "未定義の絵文字", emoji: "👍", want: ReactionUnknown},
		{name: "空文字", emoji: "", want: ReactionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseReaction(tt.emoji); got != tt.want {
				t.Errorf("ParseReaction(%q) = %v, want %v", tt.emoji, got, tt.want)
			}
		})
	}
}

func TestReaction_TargetStatus(t *testing.T) {
	tests := []struct {
		name       string
		reaction   Reaction
		wantStatus Status
		wantOK     bool
	}{
		{name: "承認はapprovedへ遷移", reaction: ReactionApprove, wantStatus: StatusApproved, wantOK: true},
		{name: "却下はrejectedへ遷移", reaction: ReactionReject, wantStatus: StatusRejected, wantOK: true},
		{name: "詳細は遷移しない", reaction: ReactionInfo, wantOK: false},
		{name: "未定義は遷移しない", reaction: ReactionUnknown, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.reaction.TargetStatus()
			if ok != tt.wantOK || got != tt.wantStatus {
				t.Errorf("TargetStatus() = (%v, %v), want (%v, %v)", got, ok, tt.wantStatus, tt.wantOK)
			}
		})
	}
}

func TestNotificationReactions_Order(t *testing.T) {
	want := []string{EmojiApprove, EmojiReject, EmojiInfo}
	if len(NotificationReactions) != len(want) {
		t.Fatalf("len(NotificationReactions) = %d, want %d", len(NotificationReactions), len(want))
	}
	for i := range want {
		if NotificationReactions[i] != want[i] {
			t.Errorf("NotificationReactions[%d] = %q, want %q", i, NotificationReactions[i], want[i])
		}
	}
}
