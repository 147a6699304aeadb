package aws

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/rs/zerolog"
)

const (
	// OCRPollInterval is the wait between Textract job status checks
	OCRPollInterval = 5 * time.Second

	// DefaultOCRMaxPolls bounds a Textract job to ten minutes of polling
	DefaultOCRMaxPolls = 120
)

// imageExtensions are read with synchronous text detection
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
}

// TextractAPI is the subset of the Textract client used here
type TextractAPI interface {
	StartDocumentTextDetection(ctx context.Context, params *textract.StartDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.StartDocumentTextDetectionOutput, error)
	GetDocumentTextDetection(ctx context.Context, params *textract.GetDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.GetDocumentTextDetectionOutput, error)
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// ObjectReader reads whole objects
type ObjectReader interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// TextExtractor turns an uploaded document into plain text
type TextExtractor struct {
	api          TextractAPI
	objects      ObjectReader
	pollInterval time.Duration
	maxPolls     int
	logger       zerolog.Logger
}

// NewTextExtractor creates a TextExtractor. maxPolls below one uses DefaultOCRMaxPolls.
func NewTextExtractor(api TextractAPI, objects ObjectReader, maxPolls int, logger zerolog.Logger) *TextExtractor {
	if maxPolls < 1 {
		maxPolls = DefaultOCRMaxPolls
	}
	return &TextExtractor{
		api:          api,
		objects:      objects,
		pollInterval: OCRPollInterval,
		maxPolls:     maxPolls,
		logger:       logger,
	}
}

// Extract returns the text of s3://bucket/key. PDFs go through an
// asynchronous Textract job, images through synchronous detection, and
// anything else is read and decoded as text.
func (e *TextExtractor) Extract(ctx context.Context, bucket, key string) (string, error) {
	ext := strings.ToLower(path.Ext(key))

	switch {
	case ext == ".pdf":
		e.logger.Info().Str("key", key).Msg("Processing document with Textract")
		return e.extractPDF(ctx, bucket, key)
	case imageExtensions[ext]:
		e.logger.Info().Str("key", key).Msg("Processing image with Textract")
		return e.extractImage(ctx, bucket, key)
	}

	e.logger.Info().Str("key", key).Msg("Processing text document directly")
	data, err := e.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	return DecodeText(data), nil
}

func (e *TextExtractor) extractImage(ctx context.Context, bucket, key string) (string, error) {
	out, err := e.api.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{S3Object: s3Object(bucket, key)},
	})
	if err != nil {
		return "", fmt.Errorf("error detecting text in s3://%s/%s: %w", bucket, key, err)
	}
	return joinLines(out.Blocks), nil
}

func (e *TextExtractor) extractPDF(ctx context.Context, bucket, key string) (string, error) {
	start, err := e.api.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{S3Object: s3Object(bucket, key)},
	})
	if err != nil {
		return "", fmt.Errorf("error starting Textract job for s3://%s/%s: %w", bucket, key, err)
	}
	jobID := aws.ToString(start.JobId)

	out, err := e.waitForJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	blocks := out.Blocks
	for out.NextToken != nil {
		out, err = e.api.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId:     aws.String(jobID),
			NextToken: out.NextToken,
		})
		if err != nil {
			return "", fmt.Errorf("error reading Textract job %s: %w", jobID, err)
		}
		blocks = append(blocks, out.Blocks...)
	}

	return joinLines(blocks), nil
}

// waitForJob polls until the job leaves IN_PROGRESS and returns its first result page
func (e *TextExtractor) waitForJob(ctx context.Context, jobID string) (*textract.GetDocumentTextDetectionOutput, error) {
	for poll := 0; poll < e.maxPolls; poll++ {
		if err := sleepContext(ctx, e.pollInterval); err != nil {
			return nil, fmt.Errorf("waiting for Textract job %s: %w", jobID, err)
		}

		out, err := e.api.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId: aws.String(jobID),
		})
		if err != nil {
			return nil, fmt.Errorf("error polling Textract job %s: %w", jobID, err)
		}

		switch out.JobStatus {
		case types.JobStatusInProgress:
			e.logger.Debug().Str("jobId", jobID).Int("poll", poll+1).Msg("Textract job in progress")
			continue
		case types.JobStatusSucceeded:
			return out, nil
		default:
			return nil, fmt.Errorf("Textract job failed with status: %s", out.JobStatus)
		}
	}

	return nil, fmt.Errorf("Textract job %s did not complete after %d polls", jobID, e.maxPolls)
}

func s3Object(bucket, key string) *types.S3Object {
	return &types.S3Object{Bucket: aws.String(bucket), Name: aws.String(key)}
}

// joinLines concatenates LINE blocks, each followed by a space
func joinLines(blocks []types.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		if block.BlockType == types.BlockTypeLine {
			b.WriteString(aws.ToString(block.Text))
			b.WriteString(" ")
		}
	}
	return b.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
