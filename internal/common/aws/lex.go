// internal/common/aws/lex.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimeservice"
)

type LexClient struct {
	client *lexruntimeservice.Client
}

func NewLexClient(ctx context.Context, region string) (*LexClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &LexClient{client: lexruntimeservice.NewFromConfig(cfg)}, nil
}

func (l *LexClient) PostText(ctx context.Context, input *lexruntimeservice.PostTextInput, optFns ...func(*lexruntimeservice.Options)) (*lexruntimeservice.PostTextOutput, error) {
	return l.client.PostText(ctx, input, optFns...)
}
