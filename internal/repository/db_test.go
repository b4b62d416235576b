package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
)

func TestTraceQuery(t *testing.T) {
	ctx, root := xray.BeginSegment(context.Background(), "TestTraceQuery")
	defer root.Close(nil)

	tests := []struct {
		name      string
		err       error
		wantFault bool
	}{
		{name: "正常終了", err: nil, wantFault: false},
		{name: "クエリ失敗", err: errors.New("connection reset"), wantFault: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryCtx, closeSeg := traceQuery(ctx, "DB.Select", "SELECT id FROM reservations")

			seg := xray.GetSegment(queryCtx)
			if seg == nil || seg.Name != "DB.Select" {
				t.Fatalf("subsegment = %+v, want DB.Select", seg)
			}
			if got := seg.Metadata["default"]["query"]; got != "SELECT id FROM reservations" {
				t.Errorf("query metadata = %v", got)
			}

			closeSeg(tt.err)
			if seg.InProgress {
				t.Error("subsegment should be closed")
			}
			if seg.Fault != tt.wantFault {
				t.Errorf("Fault = %v, want %v", seg.Fault, tt.wantFault)
			}
		})
	}
}
