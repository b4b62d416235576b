package utils

import (
	"context"
	"log"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// BeginSubsegment は X-Ray のサブセグメントを開始し、終了用の関数を返します
// 親セグメントが存在しない場合でも安全に呼び出せます
func BeginSubsegment(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return ctx, func(error) {}
	}
	return ctx, seg.Close
}

// BeginSegment はバックグラウンド処理やイベント処理の起点となるセグメントを開始します
func BeginSegment(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, seg := xray.BeginSegment(ctx, name)
	if seg == nil {
		return ctx, func(error) {}
	}
	return ctx, seg.Close
}

// AddMetadata は現在のセグメントにメタデータを追加します
func AddMetadata(ctx context.Context, key string, value interface{}) {
	seg := xray.GetSegment(ctx)
	if seg == nil {
		return
	}
	if err := seg.AddMetadata(key, value); err != nil {
		log.Printf("Failed to add %s metadata: %v", key, err)
	}
}
