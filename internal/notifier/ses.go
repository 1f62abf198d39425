package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/engage/internal/config"
)

// SES sends through the AWS SES v2 API.
type SES struct {
	client *sesv2.Client
	from   string
}

// NewSES creates an SES notifier from config. Static credentials are used
// when provided; otherwise the default AWS credential chain applies.
func NewSES(ctx context.Context, cfg appconfig.SESConfig) (*SES, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SES{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromEmail,
	}, nil
}

func (s *SES) Send(ctx context.Context, to, subject, body string, isHTML bool) (*Result, error) {
	content := &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")}
	msgBody := &types.Body{Text: content}
	if isHTML {
		msgBody = &types.Body{Html: content}
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body:    msgBody,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sending to %s: %w", to, err)
	}

	return &Result{MessageID: aws.ToString(out.MessageId)}, nil
}
