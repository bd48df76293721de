package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/export"
	sc "github.com/hourkeep/hourkeep/internal/server/config"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// Seams for tests; overriding them avoids real AWS calls.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ExportResult is a rendered export plus, when archival is configured, the
// object key and a time-limited download URL of the archived copy.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	ArchiveKey  string
	ArchiveURL  string
}

// ExportService renders time entries for download. With an S3-compatible
// backend configured it also archives each export and hands back a
// presigned GET URL, so reports can be shared without re-rendering.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewExportService(db *sql.DB, rm repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{db: db, repomanager: rm, config: cfg}
}

func exportStorageKey(format ExportFormat) string {
	d := time.Now()
	return fmt.Sprintf("exports/%d/%02d/%02d/%v.%s", d.Year(), d.Month(), d.Day(), uuid.New(), format)
}

// Export renders the caller's entries in the date range. Employees export
// their own entries; approving roles may export any user's by passing a
// non-empty userID, or everyone's with userID == "".
func (s *ExportService) Export(ctx context.Context, actor Actor, userID, start, end string, format ExportFormat) (*ExportResult, error) {
	if _, _, err := validateRange(start, end); err != nil {
		return nil, err
	}
	if !actor.Role.CanApprove() {
		userID = actor.ID
	}

	var (
		list []*models.TimeEntry
		err  error
	)
	if userID == "" {
		list, err = s.repomanager.Entries(s.db).ListByDateRange(ctx, start, end)
	} else {
		list, err = s.repomanager.Entries(s.db).ListByUserAndRange(ctx, userID, start, end)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	result := &ExportResult{}
	switch format {
	case FormatCSV:
		err = export.CSV(&buf, list)
		result.ContentType = "text/csv"
	case FormatXLSX:
		err = export.XLSX(&buf, list)
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", common.ErrorValidation, format)
	}
	if err != nil {
		return nil, err
	}

	result.FileName = fmt.Sprintf("timesheet_%s_%s.%s", start, end, format)
	result.Data = buf.Bytes()

	if s.config.ExportArchivalEnabled() {
		if err := s.archive(ctx, format, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *ExportService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}
	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *ExportService) archive(ctx context.Context, format ExportFormat, result *ExportResult) error {
	client, err := s.getS3Client()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	key := exportStorageKey(format)
	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(result.Data),
		ContentType: &result.ContentType,
	}); err != nil {
		return err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return err
	}

	result.ArchiveKey = key
	result.ArchiveURL = req.URL
	return nil
}
