package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// 読み込み後に別経路で承認された予約を、古い pending の状態のまま却下しようとするケース
func TestService_Transition_StaleRead(t *testing.T) {
	ctx, seg := xray.BeginSegment(context.Background(), "TestService_Transition_StaleRead")
	defer seg.Close(nil)

	tests := []struct {
		name   string
		reject func(t *testing.T, env *testEnv, stale *model.Reservation, msg *messaging.Message) *messaging.CommandResponse
	}{
		{
			name: "リアクション経由",
			reject: func(t *testing.T, env *testEnv, stale *model.Reservation, msg *messaging.Message) *messaging.CommandResponse {
				member := env.gateway.members["owner-1"]
				env.svc.reactTransition(ctx, stale, msg, member, model.StatusRejected, model.EmojiReject)
				return nil
			},
		},
		{
			name: "コマンド経由",
			reject: func(t *testing.T, env *testEnv, stale *model.Reservation, msg *messaging.Message) *messaging.CommandResponse {
				req := adminRequest(messaging.CommandReservations, messaging.ActionReject, stale.ID)
				resp, err := env.svc.transitionCommand(ctx, stale, model.StatusRejected, req)
				if err != nil {
					t.Fatalf("transitionCommand() error = %v", err)
				}
				return &resp
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, msg := notifiedEnv(t, ctx)

			stale, err := env.repo.GetByID(ctx, "res-1")
			if err != nil || stale == nil {
				t.Fatalf("GetByID() = %v, %v", stale, err)
			}

			env.svc.HandleReaction(ctx, reactionEvent(msg, "admin-1", model.EmojiApprove))
			if got := env.repo.get("res-1").Status; got != model.StatusApproved {
				t.Fatalf("Status = %q, want approved", got)
			}
			if !stale.IsPending() {
				t.Fatal("stale copy should still be pending")
			}
			edits := len(env.gateway.edits)
			reactions := len(env.gateway.addedReactions(msg.ID))

			resp := tt.reject(t, env, stale, msg)

			if env.repo.updateCount() != 1 {
				t.Errorf("updates = %d, want 1", env.repo.updateCount())
			}
			if got := env.repo.get("res-1").Status; got != model.StatusApproved {
				t.Errorf("Status = %q, want approved", got)
			}
			if len(env.gateway.edits) != edits {
				t.Error("message must not be edited by the losing transition")
			}
			if got := len(env.gateway.addedReactions(msg.ID)); got != reactions {
				t.Errorf("reactions = %d, want %d", got, reactions)
			}
			if len(env.owner.statuses) != 0 {
				t.Errorf("owner notifications = %v, want none", env.owner.statuses)
			}
			if resp != nil {
				if resp.Embed == nil || resp.Embed.Description != "Cette réservation est déjà approved" {
					t.Errorf("response = %+v", resp.Embed)
				}
			}
		})
	}
}

func TestService_Transition_ConditionalUpdate(t *testing.T) {
	ctx, seg := xray.BeginSegment(context.Background(), "TestService_Transition_ConditionalUpdate")
	defer seg.Close(nil)

	env := newTestEnv(pendingReservation("res-1", testNow))
	first, _ := env.repo.GetByID(ctx, "res-1")
	second, _ := env.repo.GetByID(ctx, "res-1")

	if err := env.svc.transition(ctx, first, model.StatusApproved, "a"); err != nil {
		t.Fatalf("first transition() error = %v", err)
	}
	err := env.svc.transition(ctx, second, model.StatusRejected, "b")
	if !errors.Is(err, model.ErrNotPending) {
		t.Errorf("second transition() error = %v, want ErrNotPending", err)
	}
	if got := env.repo.get("res-1"); got.Status != model.StatusApproved || got.AdminNotes != "a" {
		t.Errorf("reservation = %+v", got)
	}
}
